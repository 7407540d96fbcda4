package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tutorbook/internal/core"
	"tutorbook/internal/stats"
)

// PgxDBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type PgxDBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to dbURL, applies pending migrations and
// returns a pooled repository.
func NewPostgresRepository(ctx context.Context, dbURL string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunPostgresMigrations(dbURL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) FetchClients(ctx context.Context, ownerID int64) ([]core.Client, error) {
	return pgFetchClients(ctx, r.pool, ownerID)
}

func (r *PostgresRepository) FetchSessions(ctx context.Context, ownerID int64, rng *core.DateRange) ([]core.Session, error) {
	return pgFetchSessions(ctx, r.pool, ownerID, rng)
}

// FetchSnapshot reads clients and sessions in one repeatable-read,
// read-only transaction.
func (r *PostgresRepository) FetchSnapshot(ctx context.Context, ownerID int64, rng *core.DateRange) ([]core.Client, []core.Session, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	clients, err := pgFetchClients(ctx, tx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := pgFetchSessions(ctx, tx, ownerID, rng)
	if err != nil {
		return nil, nil, err
	}
	return clients, sessions, tx.Commit(ctx)
}

func (r *PostgresRepository) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	if c.Status == "" {
		c.Status = core.ClientActive
	}
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	query := `
		INSERT INTO clients (owner_id, student_name, rate_cents, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, student_name, rate_cents, status, created_at
	`
	var (
		out   core.Client
		cents int64
	)
	err := r.pool.QueryRow(ctx, query, c.OwnerID, c.Name, c.Rate.Cents, c.Status).Scan(
		&out.ID,
		&out.OwnerID,
		&out.Name,
		&cents,
		&out.Status,
		&out.CreatedAt,
	)
	if err != nil {
		return core.Client{}, fmt.Errorf("create client: %w", err)
	}
	out.Rate = core.Money{Cents: cents}
	return out, nil
}

func (r *PostgresRepository) CreateSession(ctx context.Context, s core.Session) (core.Session, error) {
	if err := s.Validate(); err != nil {
		return core.Session{}, err
	}
	query := `
		INSERT INTO sessions (owner_id, client_id, session_date, session_time, description, payment_status)
		SELECT $1::bigint, c.id, $3::date, $4::text, $5::text, $6::text
		FROM clients c
		WHERE c.id = $2 AND c.owner_id = $1
		RETURNING id, owner_id, client_id, session_date, session_time, description, payment_status
	`
	row := r.pool.QueryRow(ctx, query,
		s.OwnerID, s.ClientID, s.Date.Time, s.Time, s.Description, s.Status.String())
	out, err := scanPgSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Session{}, stats.ErrClientNotFound
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("create session: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) UpdateClientRate(ctx context.Context, ownerID, clientID int64, rate core.Money) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET rate_cents = $1 WHERE id = $2 AND owner_id = $3`,
		rate.Cents, clientID, ownerID)
	if err != nil {
		return fmt.Errorf("update client rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return stats.ErrClientNotFound
	}
	return nil
}

func pgFetchClients(ctx context.Context, db PgxDBTX, ownerID int64) ([]core.Client, error) {
	rows, err := db.Query(ctx, `
		SELECT id, owner_id, student_name, rate_cents, status, created_at
		FROM clients
		WHERE owner_id = $1
		ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	out := make([]core.Client, 0)
	for rows.Next() {
		var (
			c     core.Client
			cents int64
		)
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &cents, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.Rate = core.Money{Cents: cents}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return out, nil
}

func pgFetchSessions(ctx context.Context, db PgxDBTX, ownerID int64, rng *core.DateRange) ([]core.Session, error) {
	query := `
		SELECT id, owner_id, client_id, session_date, session_time, description, payment_status
		FROM sessions
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	if rng != nil {
		query += ` AND session_date >= $2 AND session_date <= $3`
		args = append(args, rng.Start.Time, rng.End.Time)
	}
	query += ` ORDER BY session_date, session_time, id`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Session, 0)
	for rows.Next() {
		s, err := scanPgSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

func scanPgSession(row pgx.Row) (core.Session, error) {
	var (
		s      core.Session
		date   time.Time
		status string
	)
	if err := row.Scan(&s.ID, &s.OwnerID, &s.ClientID, &date, &s.Time, &s.Description, &status); err != nil {
		return core.Session{}, err
	}
	s.Date = core.DateOf(date)
	parsed, err := core.ParsePaymentStatus(status)
	if err != nil {
		return core.Session{}, err
	}
	s.Status = parsed
	return s, nil
}

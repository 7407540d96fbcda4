package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tutorbook/internal/core"
	"tutorbook/internal/stats"

	_ "modernc.org/sqlite"
)

// sqliteTimestamp is the layout produced by the created_at column default.
const sqliteTimestamp = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FetchClients implements stats.RecordReader
func (r *SQLiteRepository) FetchClients(ctx context.Context, ownerID int64) ([]core.Client, error) {
	return fetchClients(ctx, r.queries, ownerID)
}

// FetchSessions implements stats.RecordReader
func (r *SQLiteRepository) FetchSessions(ctx context.Context, ownerID int64, rng *core.DateRange) ([]core.Session, error) {
	return fetchSessions(ctx, r.queries, ownerID, rng)
}

// FetchSnapshot implements stats.SnapshotReader. Both reads run inside one
// read-only transaction so they observe the same state.
func (r *SQLiteRepository) FetchSnapshot(ctx context.Context, ownerID int64, rng *core.DateRange) ([]core.Client, []core.Session, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	clients, err := fetchClients(ctx, q, ownerID)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := fetchSessions(ctx, q, ownerID, rng)
	if err != nil {
		return nil, nil, err
	}
	return clients, sessions, tx.Commit()
}

// CreateClient stores a new client and returns it with its assigned ID.
func (r *SQLiteRepository) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	if c.Status == "" {
		c.Status = core.ClientActive
	}
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	row, err := r.queries.CreateClient(ctx, CreateClientParams{
		OwnerID:     c.OwnerID,
		StudentName: c.Name,
		RateCents:   c.Rate.Cents,
		Status:      c.Status,
	})
	if err != nil {
		return core.Client{}, fmt.Errorf("create client: %w", err)
	}

	slog.InfoContext(ctx, "Client saved to SQLite",
		"id", row.ID,
		"owner_id", row.OwnerID,
		"rate_cents", row.RateCents)

	return clientFromRow(row)
}

// CreateSession stores a new session. The client must belong to the same owner.
func (r *SQLiteRepository) CreateSession(ctx context.Context, s core.Session) (core.Session, error) {
	if err := s.Validate(); err != nil {
		return core.Session{}, err
	}
	if _, err := r.queries.GetClient(ctx, GetClientParams{ID: s.ClientID, OwnerID: s.OwnerID}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Session{}, stats.ErrClientNotFound
		}
		return core.Session{}, fmt.Errorf("get client %d: %w", s.ClientID, err)
	}

	row, err := r.queries.CreateSession(ctx, CreateSessionParams{
		OwnerID:       s.OwnerID,
		ClientID:      s.ClientID,
		SessionDate:   s.Date.String(),
		SessionTime:   s.Time,
		Description:   s.Description,
		PaymentStatus: s.Status.String(),
	})
	if err != nil {
		return core.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sessionFromRow(row)
}

// UpdateClientRate changes a client's current rate. Every report computed
// afterwards prices that client's past sessions with the new rate.
func (r *SQLiteRepository) UpdateClientRate(ctx context.Context, ownerID, clientID int64, rate core.Money) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	n, err := r.queries.UpdateClientRate(ctx, UpdateClientRateParams{
		RateCents: rate.Cents,
		ID:        clientID,
		OwnerID:   ownerID,
	})
	if err != nil {
		return fmt.Errorf("update client rate: %w", err)
	}
	if n == 0 {
		return stats.ErrClientNotFound
	}
	return nil
}

func fetchClients(ctx context.Context, q *Queries, ownerID int64) ([]core.Client, error) {
	rows, err := q.ListClients(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]core.Client, 0, len(rows))
	for _, row := range rows {
		c, err := clientFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func fetchSessions(ctx context.Context, q *Queries, ownerID int64, rng *core.DateRange) ([]core.Session, error) {
	var (
		rows []Session
		err  error
	)
	if rng == nil {
		rows, err = q.ListSessions(ctx, ownerID)
	} else {
		// ISO dates sort lexicographically, so TEXT comparison is a date comparison.
		rows, err = q.ListSessionsInRange(ctx, ListSessionsInRangeParams{
			OwnerID:  ownerID,
			FromDate: rng.Start.String(),
			ToDate:   rng.End.String(),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]core.Session, 0, len(rows))
	for _, row := range rows {
		s, err := sessionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func clientFromRow(row Client) (core.Client, error) {
	created, err := time.Parse(sqliteTimestamp, row.CreatedAt)
	if err != nil {
		return core.Client{}, fmt.Errorf("client %d: parse created_at: %w", row.ID, err)
	}
	return core.Client{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Name:      row.StudentName,
		Rate:      core.Money{Cents: row.RateCents},
		Status:    row.Status,
		CreatedAt: created,
	}, nil
}

func sessionFromRow(row Session) (core.Session, error) {
	date, err := core.ParseDate(row.SessionDate)
	if err != nil {
		return core.Session{}, fmt.Errorf("session %d: %w", row.ID, err)
	}
	status, err := core.ParsePaymentStatus(row.PaymentStatus)
	if err != nil {
		return core.Session{}, fmt.Errorf("session %d: %w", row.ID, err)
	}
	return core.Session{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		ClientID:    row.ClientID,
		Date:        date,
		Time:        row.SessionTime,
		Description: row.Description,
		Status:      status,
	}, nil
}

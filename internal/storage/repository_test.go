package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tutorbook/internal/core"
	"tutorbook/internal/stats"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "tutorbook.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreateClient(t *testing.T, repo *SQLiteRepository, owner int64, name string, cents int64) core.Client {
	t.Helper()
	c, err := repo.CreateClient(context.Background(), core.Client{OwnerID: owner, Name: name, Rate: core.Money{Cents: cents}})
	if err != nil {
		t.Fatalf("CreateClient(%s): %v", name, err)
	}
	return c
}

func mustCreateSession(t *testing.T, repo *SQLiteRepository, owner, clientID int64, date string, status core.PaymentStatus) core.Session {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatal(err)
	}
	s, err := repo.CreateSession(context.Background(), core.Session{
		OwnerID: owner, ClientID: clientID, Date: d, Time: "10:00", Status: status,
	})
	if err != nil {
		t.Fatalf("CreateSession(%s): %v", date, err)
	}
	return s
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	ana := mustCreateClient(t, repo, 1, "Ana", 10000)
	if ana.ID == 0 || ana.Status != core.ClientActive || ana.CreatedAt.IsZero() {
		t.Fatalf("created client = %+v", ana)
	}
	mustCreateSession(t, repo, 1, ana.ID, "2024-03-01", core.Paid)
	mustCreateSession(t, repo, 1, ana.ID, "2024-03-31", core.Unpaid)
	mustCreateSession(t, repo, 1, ana.ID, "2024-04-01", core.Unpaid)

	clients, err := repo.FetchClients(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(clients) != 1 || clients[0].Name != "Ana" || clients[0].Rate.Cents != 10000 {
		t.Errorf("clients = %+v", clients)
	}

	all, err := repo.FetchSessions(ctx, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("sessions = %d, want 3", len(all))
	}

	march, err := core.MonthRange(2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	inMarch, err := repo.FetchSessions(ctx, 1, &march)
	if err != nil {
		t.Fatal(err)
	}
	var dates []string
	for _, s := range inMarch {
		dates = append(dates, s.Date.String())
	}
	if diff := cmp.Diff([]string{"2024-03-01", "2024-03-31"}, dates); diff != "" {
		t.Errorf("range fetch (-want +got):\n%s", diff)
	}
	if inMarch[1].Status != core.Unpaid || inMarch[1].Time != "10:00" {
		t.Errorf("session fields = %+v", inMarch[1])
	}
}

func TestSQLiteRepository_OwnerIsolation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	a := mustCreateClient(t, repo, 1, "Ana", 100)
	mustCreateClient(t, repo, 2, "Bogdan", 100)
	mustCreateSession(t, repo, 1, a.ID, "2024-01-01", core.Paid)

	clients, _ := repo.FetchClients(ctx, 2)
	sessions, _ := repo.FetchSessions(ctx, 2, nil)
	if len(clients) != 1 || clients[0].Name != "Bogdan" || len(sessions) != 0 {
		t.Errorf("owner 2 sees clients=%+v sessions=%+v", clients, sessions)
	}

	// A session cannot point at another owner's client.
	_, err := repo.CreateSession(ctx, core.Session{
		OwnerID: 2, ClientID: a.ID, Date: core.NewDate(2024, 1, 2), Time: "09:00", Status: core.Paid,
	})
	if !errors.Is(err, stats.ErrClientNotFound) {
		t.Errorf("cross-owner session err = %v, want ErrClientNotFound", err)
	}
}

func TestSQLiteRepository_Snapshot(t *testing.T) {
	repo := newTestRepository(t)
	a := mustCreateClient(t, repo, 1, "Ana", 5000)
	mustCreateSession(t, repo, 1, a.ID, "2024-05-05", core.Paid)

	clients, sessions, err := repo.FetchSnapshot(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if len(clients) != 1 || len(sessions) != 1 {
		t.Errorf("snapshot = %d clients / %d sessions", len(clients), len(sessions))
	}
}

func TestSQLiteRepository_UpdateClientRate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	a := mustCreateClient(t, repo, 1, "Ana", 5000)
	mustCreateSession(t, repo, 1, a.ID, "2023-09-01", core.Paid)

	svc := stats.NewService(repo)
	before, err := svc.ClientStats(ctx, 1, a.ID)
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.UpdateClientRate(ctx, 1, a.ID, core.Money{Cents: 6500}); err != nil {
		t.Fatalf("UpdateClientRate: %v", err)
	}
	after, err := svc.ClientStats(ctx, 1, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if before.TotalPaid.Cents != 5000 || after.TotalPaid.Cents != 6500 {
		t.Errorf("paid before/after = %s/%s, want 50.00/65.00", before.TotalPaid, after.TotalPaid)
	}

	if err := repo.UpdateClientRate(ctx, 2, a.ID, core.Money{Cents: 1}); !errors.Is(err, stats.ErrClientNotFound) {
		t.Errorf("other owner update err = %v", err)
	}
	if err := repo.UpdateClientRate(ctx, 1, a.ID, core.Money{Cents: -1}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("negative rate err = %v", err)
	}
}

func TestSQLiteRepository_RejectsInvalidRecords(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateClient(ctx, core.Client{OwnerID: 1, Name: "  "}); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("empty name err = %v", err)
	}
	a := mustCreateClient(t, repo, 1, "Ana", 100)
	_, err := repo.CreateSession(ctx, core.Session{
		OwnerID: 1, ClientID: a.ID, Date: core.NewDate(2024, 1, 1), Time: "25:00", Status: core.Paid,
	})
	if !errors.Is(err, core.ErrInvalidTime) {
		t.Errorf("bad time err = %v", err)
	}
}

func TestSQLiteRepository_CorruptCreatedAt(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	ana := mustCreateClient(t, repo, 1, "Ana", 10000)
	if _, err := repo.db.ExecContext(ctx, `UPDATE clients SET created_at = 'yesterday' WHERE id = ?`, ana.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.FetchClients(ctx, 1); err == nil || !strings.Contains(err.Error(), "parse created_at") {
		t.Errorf("FetchClients err = %v, want created_at parse error", err)
	}
	if _, _, err := repo.FetchSnapshot(ctx, 1, nil); err == nil {
		t.Error("FetchSnapshot: expected error")
	}
}

func TestClientFromRow(t *testing.T) {
	got, err := clientFromRow(Client{ID: 3, OwnerID: 1, StudentName: "Ana", RateCents: 4550, Status: core.ClientActive, CreatedAt: "2024-03-01 08:30:00"})
	if err != nil {
		t.Fatal(err)
	}
	want := core.Client{ID: 3, OwnerID: 1, Name: "Ana", Rate: core.Money{Cents: 4550}, Status: core.ClientActive,
		CreatedAt: time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("client (-want +got):\n%s", diff)
	}

	if _, err := clientFromRow(Client{ID: 4, CreatedAt: ""}); err == nil {
		t.Error("expected error for empty created_at")
	}
}

func TestPgx5URL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/db":   "pgx5://u:p@localhost:5432/db",
		"postgresql://u:p@localhost:5432/db": "pgx5://u:p@localhost:5432/db",
		"pgx5://localhost/db":                "pgx5://localhost/db",
	}
	for in, want := range tests {
		if got := pgx5URL(in); got != want {
			t.Errorf("pgx5URL(%q) = %q, want %q", in, got, want)
		}
	}
}

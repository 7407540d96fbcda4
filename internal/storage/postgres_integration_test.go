package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"tutorbook/internal/core"
	"tutorbook/internal/stats"
)

func integrationRepository(t *testing.T) *PostgresRepository {
	t.Helper()
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("..", "..", ".env"))

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		t.Skip("skipping integration test: DB_URL is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := NewPostgresRepository(ctx, dbURL)
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestPostgresRepository_MonthlySummary(t *testing.T) {
	repo := integrationRepository(t)
	ctx := context.Background()
	owner := time.Now().UnixNano() % 1_000_000_000
	t.Cleanup(func() {
		repo.pool.Exec(ctx, `DELETE FROM sessions WHERE owner_id = $1`, owner)
		repo.pool.Exec(ctx, `DELETE FROM clients WHERE owner_id = $1`, owner)
	})

	a, err := repo.CreateClient(ctx, core.Client{OwnerID: owner, Name: "Ana", Rate: core.Money{Cents: 10000}})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	b, err := repo.CreateClient(ctx, core.Client{OwnerID: owner, Name: "Bogdan", Rate: core.Money{Cents: 5000}})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	for _, s := range []core.Session{
		{ClientID: a.ID, Date: core.NewDate(2024, 2, 1), Status: core.Paid},
		{ClientID: a.ID, Date: core.NewDate(2024, 2, 14), Status: core.Paid},
		{ClientID: a.ID, Date: core.NewDate(2024, 2, 29), Status: core.Unpaid},
		{ClientID: b.ID, Date: core.NewDate(2024, 2, 20), Status: core.Paid},
		{ClientID: b.ID, Date: core.NewDate(2024, 3, 1), Status: core.Unpaid},
	} {
		s.OwnerID = owner
		s.Time = "15:00"
		if _, err := repo.CreateSession(ctx, s); err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}

	got, err := stats.NewService(repo).MonthlySummary(ctx, owner, 2024, 2)
	if err != nil {
		t.Fatalf("MonthlySummary: %v", err)
	}
	if got.TotalSessions != 4 || got.ActiveClients != 2 {
		t.Errorf("sessions/clients = %d/%d, want 4/2", got.TotalSessions, got.ActiveClients)
	}
	if got.TotalPaid.Cents != 25000 || got.TotalUnpaid.Cents != 10000 {
		t.Errorf("paid/unpaid = %s/%s, want 250.00/100.00", got.TotalPaid, got.TotalUnpaid)
	}
	if len(got.ClientDetails) != 2 || got.ClientDetails[0].ClientID != a.ID {
		t.Errorf("client details = %+v", got.ClientDetails)
	}
}

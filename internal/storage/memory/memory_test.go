package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tutorbook/internal/core"
	"tutorbook/internal/stats"
)

func TestNewFromFile_Seed(t *testing.T) {
	s, err := NewFromFile("testdata/seed.json")
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	ctx := context.Background()

	clients, _ := s.FetchClients(ctx, 1)
	if len(clients) != 2 || clients[1].Rate.Cents != 5000 {
		t.Fatalf("owner 1 clients = %+v", clients)
	}

	got, err := stats.NewService(s).MonthlySummary(ctx, 1, 2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalSessions != 4 || got.TotalPaid.Cents != 25000 || got.TotalUnpaid.Cents != 10000 {
		t.Errorf("summary = %+v", got)
	}

	// New records continue after the highest seeded ID.
	c, err := s.CreateClient(ctx, core.Client{OwnerID: 1, Name: "Carmen", Rate: core.Money{Cents: 1}})
	if err != nil || c.ID != 15 {
		t.Errorf("created client = %+v err=%v, want id 15", c, err)
	}
}

func TestNewFromFile_EmptyPath(t *testing.T) {
	s, err := NewFromFile("")
	if err != nil {
		t.Fatal(err)
	}
	clients, _ := s.FetchClients(context.Background(), 1)
	if clients == nil || len(clients) != 0 {
		t.Fatalf("clients = %#v, want empty slice", clients)
	}
}

func TestReadSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown field", `{"clients":[],"extra":1}`, "unknown field"},
		{"bad status", `{"sessions":[{"id":1,"ownerId":1,"clientId":1,"sessionDate":"2024-01-01","sessionTime":"10:00","paymentStatus":"maybe"}]}`, "invalid payment status"},
		{"bad date", `{"sessions":[{"id":1,"sessionDate":"2024-13-01"}]}`, "parse date"},
		{"missing id", `{"clients":[{"ownerId":1,"studentName":"A","rate":1}]}`, "missing id"},
		{"rate overflow", `{"clients":[{"id":1,"ownerId":1,"studentName":"A","rate":184467440737095517.16}]}`, "invalid amount"},
		{"negative rate", `{"clients":[{"id":1,"ownerId":1,"studentName":"A","rate":-5}]}`, "invalid amount"},
		{"duplicate client id", `{"clients":[{"id":3,"ownerId":1,"studentName":"A","rate":1},{"id":3,"ownerId":2,"studentName":"B","rate":1}]}`, "seed client 3: duplicate id"},
		{"duplicate session id", `{"sessions":[{"id":9,"ownerId":1,"clientId":1,"sessionDate":"2024-01-01","sessionTime":"10:00","paymentStatus":"paid"},{"id":9,"ownerId":1,"clientId":1,"sessionDate":"2024-01-02","sessionTime":"10:00","paymentStatus":"paid"}]}`, "seed session 9: duplicate id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed, err := ReadSeed(strings.NewReader(tt.doc))
			if err == nil {
				_, _, err = seed.Records()
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestStore_SessionNeedsOwnClient(t *testing.T) {
	s := New()
	ctx := context.Background()
	c, _ := s.CreateClient(ctx, core.Client{OwnerID: 1, Name: "Ana", Rate: core.Money{Cents: 100}})

	_, err := s.CreateSession(ctx, core.Session{OwnerID: 2, ClientID: c.ID, Date: core.NewDate(2024, 1, 1), Time: "10:00", Status: core.Paid})
	if !errors.Is(err, stats.ErrClientNotFound) {
		t.Fatalf("err = %v, want ErrClientNotFound", err)
	}
}

func TestStore_DeletedClientLeavesOrphans(t *testing.T) {
	s := New()
	ctx := context.Background()
	c, _ := s.CreateClient(ctx, core.Client{OwnerID: 1, Name: "Ana", Rate: core.Money{Cents: 100}})
	if _, err := s.CreateSession(ctx, core.Session{OwnerID: 1, ClientID: c.ID, Date: core.NewDate(2024, 1, 1), Time: "10:00", Status: core.Unpaid}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteClient(ctx, 1, c.ID); err != nil {
		t.Fatal(err)
	}

	d, err := stats.NewService(s).Dashboard(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.TotalSessions != 1 || !d.UnpaidAmount.IsZero() || len(d.UnpaidSessions) != 0 {
		t.Errorf("dashboard = %+v", d)
	}
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().FetchClients(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

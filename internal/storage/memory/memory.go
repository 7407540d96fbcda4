// Package memory is a record store held in process memory, optionally seeded
// from a JSON file. It serves development and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"tutorbook/internal/core"
	"tutorbook/internal/stats"
)

type Store struct {
	mu       sync.RWMutex
	clients  []core.Client
	sessions []core.Session
	nextID   int64
	now      func() time.Time
}

func New() *Store {
	return &Store{nextID: 1, now: time.Now}
}

// NewFromSeed loads records with their seed IDs preserved.
func NewFromSeed(seed Seed) (*Store, error) {
	clients, sessions, err := seed.Records()
	if err != nil {
		return nil, err
	}
	s := New()
	s.clients = clients
	s.sessions = sessions
	for _, c := range clients {
		s.nextID = max(s.nextID, c.ID+1)
	}
	for _, ss := range sessions {
		s.nextID = max(s.nextID, ss.ID+1)
	}
	return s, nil
}

// NewFromFile seeds the store from a JSON file. An empty path gives an empty store.
func NewFromFile(path string) (*Store, error) {
	if path == "" {
		return New(), nil
	}
	seed, err := LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	return NewFromSeed(seed)
}

func (s *Store) Close() error { return nil }

func (s *Store) Ping(context.Context) error { return nil }

// FetchClients implements stats.RecordReader
func (s *Store) FetchClients(ctx context.Context, ownerID int64) ([]core.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientsOf(ownerID), nil
}

// FetchSessions implements stats.RecordReader
func (s *Store) FetchSessions(ctx context.Context, ownerID int64, rng *core.DateRange) ([]core.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionsOf(ownerID, rng), nil
}

// FetchSnapshot implements stats.SnapshotReader
func (s *Store) FetchSnapshot(ctx context.Context, ownerID int64, rng *core.DateRange) ([]core.Client, []core.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientsOf(ownerID), s.sessionsOf(ownerID, rng), nil
}

func (s *Store) CreateClient(_ context.Context, c core.Client) (core.Client, error) {
	if c.Status == "" {
		c.Status = core.ClientActive
	}
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID
	s.nextID++
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	s.clients = append(s.clients, c)
	return c, nil
}

func (s *Store) CreateSession(_ context.Context, ss core.Session) (core.Session, error) {
	if err := ss.Validate(); err != nil {
		return core.Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findClient(ss.OwnerID, ss.ClientID) < 0 {
		return core.Session{}, stats.ErrClientNotFound
	}
	ss.ID = s.nextID
	s.nextID++
	s.sessions = append(s.sessions, ss)
	return ss, nil
}

func (s *Store) UpdateClientRate(_ context.Context, ownerID, clientID int64, rate core.Money) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findClient(ownerID, clientID)
	if i < 0 {
		return stats.ErrClientNotFound
	}
	s.clients[i].Rate = rate
	return nil
}

// DeleteClient removes a client but keeps its sessions, which then no longer
// resolve. Reports skip such sessions.
func (s *Store) DeleteClient(_ context.Context, ownerID, clientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findClient(ownerID, clientID)
	if i < 0 {
		return stats.ErrClientNotFound
	}
	s.clients = slices.Delete(s.clients, i, i+1)
	return nil
}

func (s *Store) findClient(ownerID, clientID int64) int {
	return slices.IndexFunc(s.clients, func(c core.Client) bool {
		return c.ID == clientID && c.OwnerID == ownerID
	})
}

func (s *Store) clientsOf(ownerID int64) []core.Client {
	out := make([]core.Client, 0)
	for _, c := range s.clients {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) sessionsOf(ownerID int64, rng *core.DateRange) []core.Session {
	out := make([]core.Session, 0)
	for _, ss := range s.sessions {
		if ss.OwnerID != ownerID {
			continue
		}
		if rng != nil && !rng.Contains(ss.Date) {
			continue
		}
		out = append(out, ss)
	}
	slices.SortStableFunc(out, func(a, b core.Session) int {
		if c := a.Date.Compare(b.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Time, b.Time)
	})
	return out
}

// Package stats turns raw session and client records into dashboard
// snapshots, financial summaries and monthly reports.
//
// Amounts are always priced with the client's current rate at read time, so
// changing a rate retroactively changes every historical total.
package stats

import (
	"context"
	"errors"
	"fmt"

	"tutorbook/internal/core"
)

// Ports for the record store.
type (
	// RecordReader is the read-only view of one owner's clients and sessions.
	RecordReader interface {
		// FetchSessions returns the owner's sessions, restricted to rng when
		// it is non-nil (bounds inclusive).
		FetchSessions(ctx context.Context, ownerID int64, rng *core.DateRange) ([]core.Session, error)
		// FetchClients returns all of the owner's clients.
		FetchClients(ctx context.Context, ownerID int64) ([]core.Client, error)
	}

	// SnapshotReader is implemented by stores that can return both
	// collections from a single point in time.
	SnapshotReader interface {
		FetchSnapshot(ctx context.Context, ownerID int64, rng *core.DateRange) ([]core.Client, []core.Session, error)
	}
)

// ErrClientNotFound is returned when a client does not exist for the owner.
var ErrClientNotFound = errors.New("client not found")

// ReadError wraps a record store failure. It is never retried here.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

package backend

import (
	"context"

	"tutorbook/internal/core"
	"tutorbook/internal/stats"
)

// Store is the record store every backend provides: the read port the
// reports consume plus the writes used by seeding and the admin CLI.
type Store interface {
	stats.RecordReader
	CreateClient(ctx context.Context, c core.Client) (core.Client, error)
	CreateSession(ctx context.Context, s core.Session) (core.Session, error)
	UpdateClientRate(ctx context.Context, ownerID, clientID int64, rate core.Money) error
	Ping(ctx context.Context) error
	Close() error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store and its cleanup function
type BackendResult struct {
	Store   Store
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	DatabaseURL string

	// Memory specific, empty means start empty
	SeedFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

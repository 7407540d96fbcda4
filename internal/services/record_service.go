package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tutorbook/internal/core"
	tlog "tutorbook/internal/log"
	"tutorbook/internal/stats"
)

// RecordWriter is the write side of a record store.
type RecordWriter interface {
	CreateClient(ctx context.Context, c core.Client) (core.Client, error)
	CreateSession(ctx context.Context, s core.Session) (core.Session, error)
	UpdateClientRate(ctx context.Context, ownerID, clientID int64, rate core.Money) error
}

// RecordService performs the administrative writes: bulk import and rate
// changes. Reports never go through it.
type RecordService struct {
	store  RecordWriter
	logger *slog.Logger
}

func NewRecordService(store RecordWriter, logger *slog.Logger) *RecordService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordService{store: store, logger: logger}
}

// ImportResult counts what an import wrote.
type ImportResult struct {
	Clients  int
	Sessions int
	// Skipped counts sessions whose client was not part of the import.
	Skipped int
}

// importKey identifies a client in import input. Input IDs are only unique
// per owner.
type importKey struct {
	owner, id int64
}

// Import writes clients first, then their sessions. Stores assign new IDs,
// so session client references are remapped from the (owner, ID) pairs used
// in the input. Sessions pointing at clients outside the input are skipped.
func (s *RecordService) Import(ctx context.Context, clients []core.Client, sessions []core.Session) (ImportResult, error) {
	var res ImportResult
	ids := make(map[importKey]int64, len(clients))

	for _, c := range clients {
		key := importKey{owner: c.OwnerID, id: c.ID}
		if _, dup := ids[key]; dup {
			return res, fmt.Errorf("import client %d: duplicate id for owner %d", c.ID, c.OwnerID)
		}
		created, err := s.store.CreateClient(ctx, c)
		if err != nil {
			return res, fmt.Errorf("import client %d: %w", c.ID, err)
		}
		ids[key] = created.ID
		res.Clients++
	}

	for _, ss := range sessions {
		newID, ok := ids[importKey{owner: ss.OwnerID, id: ss.ClientID}]
		if !ok {
			res.Skipped++
			continue
		}
		ss.ClientID = newID
		if _, err := s.store.CreateSession(ctx, ss); err != nil {
			if errors.Is(err, stats.ErrClientNotFound) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("import session %d: %w", ss.ID, err)
		}
		res.Sessions++
	}

	s.logger.InfoContext(ctx, "Records imported",
		tlog.FieldComponent, tlog.ComponentStorage,
		tlog.FieldOperation, tlog.OpCreate,
		"clients", res.Clients,
		"sessions", res.Sessions,
		tlog.FieldSkippedSessions, res.Skipped)
	return res, nil
}

// SetClientRate changes a client's current rate. Every report, past months
// included, is priced with the new value from now on.
func (s *RecordService) SetClientRate(ctx context.Context, ownerID, clientID int64, rate core.Money) error {
	if ownerID <= 0 {
		return core.ErrMissingOwner
	}
	if clientID <= 0 {
		return core.ErrMissingClient
	}
	if err := rate.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateClientRate(ctx, ownerID, clientID, rate); err != nil {
		return fmt.Errorf("update rate: %w", err)
	}

	s.logger.InfoContext(ctx, "Client rate updated",
		tlog.FieldComponent, tlog.ComponentStorage,
		tlog.FieldOperation, tlog.OpUpdate,
		tlog.FieldOwnerID, ownerID,
		tlog.FieldClientID, clientID,
		"rate", rate.String())
	return nil
}

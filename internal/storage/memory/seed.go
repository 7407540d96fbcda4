package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"tutorbook/internal/core"
)

// Seed is the JSON document accepted by SEED_FILE and the seed command.
// Rates are decimal numbers; payment statuses accept "paid"/"unpaid" and the
// legacy "Plătit"/"Neplătit" labels.
type Seed struct {
	Clients  []SeedClient  `json:"clients"`
	Sessions []SeedSession `json:"sessions"`
}

type SeedClient struct {
	ID      int64      `json:"id"`
	OwnerID int64      `json:"ownerId"`
	Name    string     `json:"studentName"`
	Rate    core.Money `json:"rate"`
	Status  string     `json:"status"`
}

type SeedSession struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	ClientID    int64     `json:"clientId"`
	Date        core.Date `json:"sessionDate"`
	Time        string    `json:"sessionTime"`
	Description string    `json:"description"`
	Status      string    `json:"paymentStatus"`
}

// ReadSeed decodes a seed document, rejecting unknown fields.
func ReadSeed(r io.Reader) (Seed, error) {
	var seed Seed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	return seed, nil
}

func LoadSeedFile(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return ReadSeed(f)
}

// Records validates the seed and converts it to domain records. Sessions may
// reference clients missing from the seed; reports skip them.
func (s Seed) Records() ([]core.Client, []core.Session, error) {
	clients := make([]core.Client, 0, len(s.Clients))
	clientIDs := make(map[int64]bool, len(s.Clients))
	for i, sc := range s.Clients {
		c := core.Client{
			ID:      sc.ID,
			OwnerID: sc.OwnerID,
			Name:    sc.Name,
			Rate:    sc.Rate,
			Status:  sc.Status,
		}
		if c.Status == "" {
			c.Status = core.ClientActive
		}
		if c.ID <= 0 {
			return nil, nil, fmt.Errorf("seed client %d: missing id", i)
		}
		if clientIDs[c.ID] {
			return nil, nil, fmt.Errorf("seed client %d: duplicate id", c.ID)
		}
		clientIDs[c.ID] = true
		if err := c.Validate(); err != nil {
			return nil, nil, fmt.Errorf("seed client %d: %w", c.ID, err)
		}
		clients = append(clients, c)
	}

	sessions := make([]core.Session, 0, len(s.Sessions))
	sessionIDs := make(map[int64]bool, len(s.Sessions))
	for i, ss := range s.Sessions {
		status, err := core.ParsePaymentStatus(ss.Status)
		if err != nil {
			return nil, nil, fmt.Errorf("seed session %d: %w", i, err)
		}
		session := core.Session{
			ID:          ss.ID,
			OwnerID:     ss.OwnerID,
			ClientID:    ss.ClientID,
			Date:        ss.Date,
			Time:        ss.Time,
			Description: ss.Description,
			Status:      status,
		}
		if session.ID <= 0 {
			return nil, nil, fmt.Errorf("seed session %d: missing id", i)
		}
		if sessionIDs[session.ID] {
			return nil, nil, fmt.Errorf("seed session %d: duplicate id", session.ID)
		}
		sessionIDs[session.ID] = true
		if err := session.Validate(); err != nil {
			return nil, nil, fmt.Errorf("seed session %d: %w", session.ID, err)
		}
		sessions = append(sessions, session)
	}
	return clients, sessions, nil
}

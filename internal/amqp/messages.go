package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ReportExportMessage asks the worker to recompute one owner's monthly report
// and push it to the spreadsheet. It carries no figures: the worker reads the
// records at processing time, so a late delivery still exports current data.
type ReportExportMessage struct {
	OwnerID     int64     `json:"ownerId"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	RequestedAt time.Time `json:"requestedAt"`
}

var errMalformedMessage = errors.New("malformed report export message")

// NewReportExportMessage stamps a request with the current time.
func NewReportExportMessage(ownerID int64, year, month int) *ReportExportMessage {
	return &ReportExportMessage{
		OwnerID:     ownerID,
		Year:        year,
		Month:       month,
		RequestedAt: time.Now().UTC(),
	}
}

func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportExportMessageFromJSON decodes a delivery body. Messages without an
// owner or period are rejected so the consumer can drop them.
func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedMessage, err)
	}
	if msg.OwnerID <= 0 {
		return nil, fmt.Errorf("%w: owner id %d", errMalformedMessage, msg.OwnerID)
	}
	if msg.Year == 0 || msg.Month == 0 {
		return nil, fmt.Errorf("%w: missing period", errMalformedMessage)
	}
	return &msg, nil
}

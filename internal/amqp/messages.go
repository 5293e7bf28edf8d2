package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind names what happened to a record.
type EventKind string

const (
	RecordCreated EventKind = "record.created"
	RecordDeleted EventKind = "record.deleted"
)

// RecordEvent is a lightweight notification about a record change. It
// carries ids only; consumers fetch the record itself from the database.
type RecordEvent struct {
	EventID   string    `json:"event_id"`
	Kind      EventKind `json:"kind"`
	RecordID  int64     `json:"record_id"`
	LedgerID  int64     `json:"ledger_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordEvent(kind EventKind, recordID, ledgerID int64) *RecordEvent {
	return &RecordEvent{
		EventID:   uuid.NewString(),
		Kind:      kind,
		RecordID:  recordID,
		LedgerID:  ledgerID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON decodes and sanity checks an event body.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Kind {
	case RecordCreated, RecordDeleted:
	default:
		return nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	if ev.RecordID <= 0 {
		return nil, fmt.Errorf("event %s has no record id", ev.EventID)
	}
	return &ev, nil
}

package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"moneybot/internal/core"
)

type EventType string

const (
	EventTransactionCreated EventType = "transaction.created"
	EventTransactionDeleted EventType = "transaction.deleted"
)

// TransactionEvent announces a change to a user's ledger. Consumers reload the
// ledger from storage, so the event carries identifiers rather than the full record.
type TransactionEvent struct {
	Type          EventType `json:"type"`
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	AmountCents   int64     `json:"amount_cents,omitempty"`
	Kind          core.Kind `json:"kind,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(eventType EventType, tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Type:          eventType,
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		AmountCents:   tx.Amount.Cents,
		Kind:          tx.Kind,
		Timestamp:     time.Now().UTC(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes an event and rejects unknown types or a missing user.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Type {
	case EventTransactionCreated, EventTransactionDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.UserID == "" {
		return nil, fmt.Errorf("event %s: missing user_id", e.Type)
	}
	return &e, nil
}

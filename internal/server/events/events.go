// Package events publishes storefront domain events. Payloads never carry
// processor secrets.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventStoreUpdated           = "StoreUpdated"
	EventCheckoutSessionCreated = "CheckoutSessionCreated"
)

const (
	TopicStoreUpdated           = "store.updated"
	TopicCheckoutSessionCreated = "checkout.session.created"
)

// Envelope wraps every published payload.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type StoreUpdatedPayload struct {
	StoreID           string   `json:"store_id"`
	Name              string   `json:"name"`
	PaymentConfigured bool     `json:"payment_configured"`
	ProductIDs        []string `json:"product_ids"`
}

type CheckoutSessionCreatedPayload struct {
	SessionID  string `json:"session_id"`
	StoreID    string `json:"store_id"`
	ProductID  string `json:"product_id"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

// Event is a payload ready to publish on Topic, partitioned by Key.
type Event struct {
	Topic   string
	Key     string
	Type    string
	Payload any
}

// Publisher accepts events for asynchronous delivery. Publish must not block
// on the broker.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// NewEnvelope stamps payload with a fresh id and the current time.
func NewEnvelope(eventType, producer, correlationID string, payload any) (*Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return &Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

// UnwrapPayload decodes the payload of an envelope into T.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

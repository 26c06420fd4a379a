package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Envelope is the canonical event envelope.
// All messages published to NATS must follow this format.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	TenantID      string          `json:"tenant_id"`
	ClientID      string          `json:"client_id"`
	Topic         string          `json:"topic"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// Supporter is the canonical representation of an ActionKit user record,
// carrying only the fields the adapter's own API exposes. The full vendor
// record travels alongside untouched in Raw.
type Supporter struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	Email      string          `json:"email"`
	FirstName  string          `json:"first_name,omitempty"`
	LastName   string          `json:"last_name,omitempty"`
	Zip        string          `json:"zip,omitempty"`
	Country    string          `json:"country,omitempty"`
	Source     string          `json:"source,omitempty"`
	Subscribed bool            `json:"subscribed"`
	CreatedAt  string          `json:"created_at,omitempty"`
	UpdatedAt  string          `json:"updated_at,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
	Venue      string          `json:"venue"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// Donation is the canonical representation of an ActionKit order record.
// Monetary amounts are decimals; ActionKit reports them as strings.
type Donation struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	SupporterID string          `json:"supporter_id,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	ImportID    string          `json:"import_id,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
	Venue       string          `json:"venue"`
	FetchedAt   time.Time       `json:"fetched_at"`
}

// SupporterEvent is the payload published when a supporter is created or updated
// through the adapter.
type SupporterEvent struct {
	ClientID    string    `json:"client_id"`
	SupporterID string    `json:"supporter_id"`
	ResourceURI string    `json:"resource_uri,omitempty"`
	Action      string    `json:"action"` // created | updated | deleted
	Timestamp   time.Time `json:"timestamp"`
}

package entities

import (
	"encoding/json"
	"time"
)

// Event types published on the domain event bus
const (
	EventPurchaseCompleted   = "purchase.completed"
	EventSubscriptionActive  = "subscription.activated"
	EventSubscriptionExpired = "subscription.expired"
	EventFacilityUpdated     = "facility.updated"
)

// DomainEvent is the envelope published on the event bus
type DomainEvent struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	AccountID  string          `json:"account_id,omitempty"`
	FacilityID string          `json:"facility_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

package providers

import (
	"context"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// domain events
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel
	Publish(ctx context.Context, channel string, event *entities.DomainEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DomainEvent, error)

	// Close shuts down the bus and all subscriptions
	Close() error
}

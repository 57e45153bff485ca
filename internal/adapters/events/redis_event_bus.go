package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/redis"
)

// RedisEventBus implements the EventBus interface over Redis Pub/Sub.
// Each Subscribe call holds its own Redis subscription; it is released
// when the caller's context is cancelled or the bus closes.
type RedisEventBus struct {
	client *redisclient.Client

	mu     sync.Mutex
	active map[*redis.PubSub]struct{}
	closed bool
}

// NewRedisEventBus creates a new Redis-backed event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	return &RedisEventBus{
		client: client,
		active: make(map[*redis.PubSub]struct{}),
	}
}

// Publish sends an event to every subscriber of the channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("type", event.Type).
		Msg("Published event")
	return nil
}

// Subscribe opens a subscription on the channel. The returned channel is
// closed when ctx is cancelled or the bus shuts down.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DomainEvent, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, fmt.Errorf("event bus is closed")
	}
	pubsub := b.client.Client().Subscribe(ctx, channel)
	b.active[pubsub] = struct{}{}
	b.mu.Unlock()

	if _, err := pubsub.Receive(ctx); err != nil {
		b.release(pubsub)
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan *entities.DomainEvent, 64)
	go b.forward(ctx, channel, pubsub, out)

	log.Debug().Str("channel", channel).Msg("Subscribed to channel")
	return out, nil
}

func (b *RedisEventBus) forward(ctx context.Context, channel string, pubsub *redis.PubSub, out chan *entities.DomainEvent) {
	defer func() {
		b.release(pubsub)
		close(out)
	}()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var event entities.DomainEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("Failed to unmarshal event")
				continue
			}

			select {
			case out <- &event:
			default:
				// consumer is not keeping up; drop rather than block the bus
				log.Warn().
					Str("channel", channel).
					Str("event_id", event.ID).
					Msg("Subscriber channel full, dropping event")
			}
		}
	}
}

func (b *RedisEventBus) release(pubsub *redis.PubSub) {
	b.mu.Lock()
	_, tracked := b.active[pubsub]
	delete(b.active, pubsub)
	b.mu.Unlock()

	if tracked {
		if err := pubsub.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close subscription")
		}
	}
}

// Close shuts down every open subscription
func (b *RedisEventBus) Close() error {
	b.mu.Lock()
	b.closed = true
	open := make([]*redis.PubSub, 0, len(b.active))
	for pubsub := range b.active {
		open = append(open, pubsub)
	}
	b.mu.Unlock()

	for _, pubsub := range open {
		b.release(pubsub)
	}

	log.Info().Msg("Event bus closed")
	return nil
}

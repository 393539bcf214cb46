package providers

import (
	"context"

	"github.com/underfoot/underfoot/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to search events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.SearchEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.SearchEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelSearchCompleted carries one event per finished orchestration run
const EventChannelSearchCompleted = "search:completed"

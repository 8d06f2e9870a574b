package providers

import (
	"context"
	"time"
)

// MonitorEvent is a refresh hint published when the event log grows. It
// carries no log data; subscribers re-read the log themselves, so dashboard
// correctness never depends on delivery.
type MonitorEvent struct {
	ID        string    `json:"id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// EventBus defines the interface for publishing and subscribing to
// monitor refresh hints
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *MonitorEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *MonitorEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelMonitorUpdates is the channel for log growth hints
	EventChannelMonitorUpdates = "monitor:updates"

	// EventTypeLogAppended signals that a new inference event was appended
	EventTypeLogAppended = "log.appended"
)

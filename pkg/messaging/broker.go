package messaging

import "context"

// Broker is the interface for message brokers used to fan out appointment
// events to downstream consumers (reminder senders, dashboards).
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

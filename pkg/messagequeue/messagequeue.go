package messagequeue

import "context"

// MessageQueue is a topic-style queue: every consumer of a topic receives
// every message published to it.
type MessageQueue interface {
	Publish(ctx context.Context, topic string, body []byte) error
	// Consume blocks, calling handler for each message, until ctx is done
	// or the broker closes the delivery channel.
	Consume(ctx context.Context, topic string, handler func(body []byte)) error
	Close() error
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cinedex-backend-go/pkg/messagequeue"
)

// QueueStream is a Stream over a message queue, so every service instance
// sees every identity transition.
type QueueStream struct {
	mq     messagequeue.MessageQueue
	topic  string
	logger *zap.Logger
}

func NewQueueStream(mq messagequeue.MessageQueue, topic string, logger *zap.Logger) *QueueStream {
	return &QueueStream{mq: mq, topic: topic, logger: logger.Named("events")}
}

func (q *QueueStream) Publish(ctx context.Context, ev StateChange) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode state change: %w", err)
	}
	return q.mq.Publish(ctx, q.topic, body)
}

func (q *QueueStream) Subscribe(ctx context.Context) (<-chan StateChange, error) {
	out := make(chan StateChange, subscriberBuffer)
	go func() {
		defer close(out)
		err := q.mq.Consume(ctx, q.topic, func(body []byte) {
			var ev StateChange
			if err := json.Unmarshal(body, &ev); err != nil {
				q.logger.Warn("Dropping malformed state change", zap.Error(err))
				return
			}
			if ev.UserID == "" || (ev.Kind != KindSignedIn && ev.Kind != KindSignedOut) {
				q.logger.Warn("Dropping invalid state change", zap.String("kind", string(ev.Kind)))
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			q.logger.Error("State change consumer stopped", zap.String("topic", q.topic), zap.Error(err))
		}
	}()
	return out, nil
}

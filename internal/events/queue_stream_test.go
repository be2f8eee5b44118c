package events

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// loopbackQueue hands published bodies straight to the consumer.
type loopbackQueue struct {
	mu        sync.Mutex
	published [][]byte
	bodies    chan []byte
}

func newLoopbackQueue() *loopbackQueue {
	return &loopbackQueue{bodies: make(chan []byte, 16)}
}

func (q *loopbackQueue) Publish(_ context.Context, _ string, body []byte) error {
	q.mu.Lock()
	q.published = append(q.published, body)
	q.mu.Unlock()
	q.bodies <- body
	return nil
}

func (q *loopbackQueue) Consume(ctx context.Context, _ string, handler func(body []byte)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b := <-q.bodies:
			handler(b)
		}
	}
}

func (q *loopbackQueue) Close() error { return nil }

func TestQueueStreamRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mq := newLoopbackQueue()
	stream := NewQueueStream(mq, "auth_state_changes", zap.NewNop())
	ch, err := stream.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, stream.Publish(ctx, SignedIn("u1", "a@example.com")))
	ev := receive(t, ch)
	assert.Equal(t, KindSignedIn, ev.Kind)
	assert.Equal(t, "a@example.com", ev.Email)
	assert.Contains(t, string(mq.published[0]), `"kind":"signed_in"`)
}

func TestQueueStreamDropsMalformedMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mq := newLoopbackQueue()
	stream := NewQueueStream(mq, "auth_state_changes", zap.NewNop())
	ch, _ := stream.Subscribe(ctx)

	mq.bodies <- []byte("not json")
	mq.bodies <- []byte(`{"kind":"exploded","userId":"u1"}`)
	require.NoError(t, stream.Publish(ctx, SignedOut("u2", "")))

	ev := receive(t, ch)
	assert.Equal(t, "u2", ev.UserID)
	assert.Equal(t, KindSignedOut, ev.Kind)
}

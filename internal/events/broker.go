package events

import (
	"context"
	"sync"
)

const subscriberBuffer = 64

type subscription struct {
	ch   chan StateChange
	done chan struct{}
}

// Broker is the in-process Stream.
type Broker struct {
	mu   sync.RWMutex
	subs []*subscription
}

func NewBroker() *Broker {
	return &Broker{}
}

// Publish delivers ev to every current subscriber, blocking while a
// subscriber's buffer is full.
func (b *Broker) Publish(ctx context.Context, ev StateChange) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
		case <-sub.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *Broker) Subscribe(ctx context.Context) (<-chan StateChange, error) {
	sub := &subscription{
		ch:   make(chan StateChange, subscriberBuffer),
		done: make(chan struct{}),
	}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		close(sub.done)
		b.mu.Lock()
		for i, s := range b.subs {
			if s == sub {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		close(sub.ch)
	}()
	return sub.ch, nil
}

package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/events"
)

// Manager hands request handlers a ready Store for the authenticated user.
type Manager struct {
	registry    *Registry
	publisher   events.Publisher
	waitTimeout time.Duration
	logger      *zap.Logger
}

func NewManager(registry *Registry, publisher events.Publisher, waitTimeout time.Duration, logger *zap.Logger) *Manager {
	if waitTimeout <= 0 {
		waitTimeout = 15 * time.Second
	}
	return &Manager{registry: registry, publisher: publisher, waitTimeout: waitTimeout, logger: logger.Named("session")}
}

// Ensure returns the user's ready store. A user with no live session (for
// example one who signed in with the identity provider directly) gets a
// signed_in event published on their behalf.
func (m *Manager) Ensure(ctx context.Context, id Identity) (*Store, error) {
	if id.UserID == "" {
		return nil, core.ErrSignInRequired
	}
	store := m.registry.Open(id.UserID)
	if store.expect(id) {
		if err := m.publisher.Publish(ctx, events.SignedIn(id.UserID, id.Email)); err != nil {
			store.reset()
			m.registry.Drop(id.UserID, store)
			return nil, fmt.Errorf("publish sign-in: %w", err)
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, m.waitTimeout)
	defer cancel()
	if err := store.Wait(waitCtx); err != nil {
		// Nobody picked up the sign-in. Forget the store so the next request
		// publishes again instead of waiting on a load that never starts.
		if ctx.Err() == nil && store.abandon() {
			m.registry.Drop(id.UserID, store)
			m.logger.Warn("Sign-in was not handled in time", zap.String("user_id", id.UserID))
		}
		return nil, err
	}
	return store, nil
}

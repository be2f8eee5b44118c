package session

import (
	"sync"

	"go.uber.org/zap"
)

// Registry owns every live Store, keyed by user id.
type Registry struct {
	repos  Repositories
	recs   Invalidator
	logger *zap.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(repos Repositories, recs Invalidator, logger *zap.Logger) *Registry {
	return &Registry{
		repos:  repos,
		recs:   recs,
		logger: logger.Named("session"),
		stores: make(map[string]*Store),
	}
}

// Open returns the user's store, creating a signed-out one if needed.
func (r *Registry) Open(userID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[userID]; ok {
		return s
	}
	s := NewStore(r.repos, r.recs, r.logger)
	r.stores[userID] = s
	return s
}

func (r *Registry) Get(userID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[userID]
	return s, ok
}

// Drop forgets the user's store if it is still the given one.
func (r *Registry) Drop(userID string, s *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.stores[userID]; ok && cur == s {
		delete(r.stores, userID)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Package session holds the per-user in-memory mirror of persisted user data
// and the state machine that keeps it in step with identity changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/db"
	"cinedex-backend-go/internal/models"
)

// State is the lifecycle state of a Store.
type State string

const (
	StateSignedOut State = "signed_out"
	StateLoading   State = "loading"
	StateReady     State = "ready"
)

var (
	ErrInvalidRatingValue = errors.New("rating must be between 1 and 5")
	ErrInvalidMovieID     = errors.New("invalid movie id")
)

// Identity is the signed-in user a store belongs to.
type Identity struct {
	UserID string
	Email  string
}

// Repositories are the remote collections mirrored by a Store.
type Repositories struct {
	Profiles   db.ProfileRepository
	Watchlists db.WatchlistRepository
	Reviews    db.ReviewRepository
	Ratings    db.RatingRepository
}

// Invalidator is notified when a user's watchlist changes.
type Invalidator interface {
	Invalidate(userID string)
}

// Store is one user's profile, watchlist, reviews and ratings. Mutations write
// to the remote store first and update the local mirror only on success.
type Store struct {
	repos  Repositories
	recs   Invalidator
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	identity  Identity
	state     State
	gen       uint64
	loading   bool          // a load is in flight
	pending   []func()      // mirror updates accepted while loading
	ready     chan struct{} // closed whenever state is not loading
	profile   models.UserProfile
	watchlist []models.WatchlistEntry
	reviews   []models.Review
	ratings   map[int]models.Rating
}

func NewStore(repos Repositories, recs Invalidator, logger *zap.Logger) *Store {
	s := &Store{
		repos:  repos,
		recs:   recs,
		logger: logger,
		now:    time.Now,
		ready:  make(chan struct{}),
	}
	s.clearLocked()
	close(s.ready)
	return s
}

// clearLocked resets every collection to its default and marks the store signed out.
func (s *Store) clearLocked() {
	s.identity = Identity{}
	s.state = StateSignedOut
	s.profile = models.DefaultProfile()
	s.watchlist = []models.WatchlistEntry{}
	s.reviews = []models.Review{}
	s.ratings = map[int]models.Rating{}
}

func (s *Store) signalReadyLocked() {
	select {
	case <-s.ready:
	default:
		close(s.ready)
	}
}

func (s *Store) openWaitLocked() {
	select {
	case <-s.ready:
		s.ready = make(chan struct{})
	default:
	}
}

// expect moves a signed-out store to loading for id without starting a load,
// so that callers can Wait for the load the bridge is about to run. It
// reports whether the transition happened.
func (s *Store) expect(id Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSignedOut {
		return false
	}
	s.identity = id
	s.state = StateLoading
	s.openWaitLocked()
	return true
}

// abandon returns a store that is waiting for a load which never started to
// signed out. It reports whether it did so.
func (s *Store) abandon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoading || s.loading {
		return false
	}
	s.gen++
	s.clearLocked()
	s.signalReadyLocked()
	return true
}

// beginLoading enters the loading state and returns the generation of the new
// load. It returns false when a load for the same identity is already running.
func (s *Store) beginLoading(id Identity) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading && s.identity.UserID == id.UserID {
		return 0, false
	}
	s.identity = id
	s.state = StateLoading
	s.loading = true
	s.pending = nil
	s.gen++
	s.openWaitLocked()
	return s.gen, true
}

// load runs the four independent loads and moves the store to ready. A
// missing document means defaults; a failed load keeps the current value.
func (s *Store) load(ctx context.Context, gen uint64, uid string) {
	var (
		profile   *models.UserProfile
		watchlist []models.WatchlistEntry
		reviews   []models.Review
		ratings   map[int]models.Rating
		loaded    [4]bool
	)
	var g errgroup.Group
	g.Go(func() error {
		p, err := s.repos.Profiles.Get(ctx, uid)
		switch {
		case errors.Is(err, db.ErrNotFound):
			def := models.DefaultProfile()
			profile, loaded[0] = &def, true
		case err != nil:
			s.logger.Warn("Profile load failed", zap.String("user_id", uid), zap.Error(err))
		default:
			profile, loaded[0] = p, true
		}
		return nil
	})
	g.Go(func() error {
		w, err := s.repos.Watchlists.List(ctx, uid)
		if err != nil {
			s.logger.Warn("Watchlist load failed", zap.String("user_id", uid), zap.Error(err))
			return nil
		}
		watchlist, loaded[1] = w, true
		return nil
	})
	g.Go(func() error {
		r, err := s.repos.Reviews.ListByUser(ctx, uid)
		if err != nil {
			s.logger.Warn("Reviews load failed", zap.String("user_id", uid), zap.Error(err))
			return nil
		}
		reviews, loaded[2] = r, true
		return nil
	})
	g.Go(func() error {
		r, err := s.repos.Ratings.Get(ctx, uid)
		switch {
		case errors.Is(err, db.ErrNotFound):
			ratings, loaded[3] = map[int]models.Rating{}, true
		case err != nil:
			s.logger.Warn("Ratings load failed", zap.String("user_id", uid), zap.Error(err))
		default:
			ratings, loaded[3] = r, true
		}
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// Signed out or reloaded while loading.
		return
	}
	if loaded[0] {
		s.profile = *profile
	}
	if loaded[1] {
		s.watchlist = watchlist
	}
	if loaded[2] {
		s.reviews = reviews
	}
	if loaded[3] {
		s.ratings = ratings
	}
	// The snapshot may predate writes accepted during the load.
	for _, fn := range s.pending {
		fn()
	}
	s.pending = nil
	s.loading = false
	s.state = StateReady
	s.signalReadyLocked()
	s.logger.Debug("Session ready", zap.String("user_id", uid))
}

// reset clears the store synchronously and marks it signed out.
func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.loading = false
	s.pending = nil
	s.clearLocked()
	s.signalReadyLocked()
}

// Wait blocks until the store is no longer loading. It returns
// core.ErrSignInRequired if the store ended up signed out.
func (s *Store) Wait(ctx context.Context) error {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	select {
	case <-ready:
	case <-ctx.Done():
		return fmt.Errorf("waiting for session: %w", ctx.Err())
	}
	if s.State() != StateReady {
		return core.ErrSignInRequired
	}
	return nil
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// signedIn returns the current identity or core.ErrSignInRequired.
func (s *Store) signedIn() (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity.UserID == "" || s.state == StateSignedOut {
		return Identity{}, core.ErrSignInRequired
	}
	return s.identity, nil
}

// mirror runs fn under the write lock if the store still belongs to userID.
// While a load is in flight fn is also queued and replayed once the load
// settles, so fn must be idempotent.
func (s *Store) mirror(userID string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity.UserID != userID {
		return
	}
	fn()
	if s.loading {
		s.pending = append(s.pending, fn)
	}
}

// AddToWatchlist stores the entry; re-adding a movie replaces its entry.
func (s *Store) AddToWatchlist(ctx context.Context, entry models.WatchlistEntry) error {
	id, err := s.signedIn()
	if err != nil {
		return err
	}
	if entry.ID <= 0 {
		return ErrInvalidMovieID
	}
	if err := s.repos.Watchlists.Put(ctx, id.UserID, entry); err != nil {
		return err
	}
	s.mirror(id.UserID, func() {
		for i := range s.watchlist {
			if s.watchlist[i].ID == entry.ID {
				s.watchlist[i] = entry
				return
			}
		}
		s.watchlist = append(s.watchlist, entry)
	})
	s.recs.Invalidate(id.UserID)
	return nil
}

// RemoveFromWatchlist deletes the entry. Removing an absent movie is a no-op.
func (s *Store) RemoveFromWatchlist(ctx context.Context, movieID int) error {
	id, err := s.signedIn()
	if err != nil {
		return err
	}
	if err := s.repos.Watchlists.Delete(ctx, id.UserID, movieID); err != nil {
		return err
	}
	removed := false
	s.mirror(id.UserID, func() {
		kept := s.watchlist[:0]
		for _, e := range s.watchlist {
			if e.ID == movieID {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		s.watchlist = kept
	})
	if removed {
		s.recs.Invalidate(id.UserID)
	}
	return nil
}

// AddRating sets the user's rating of a movie, replacing any earlier one.
func (s *Store) AddRating(ctx context.Context, movieID, value int) (models.Rating, error) {
	id, err := s.signedIn()
	if err != nil {
		return models.Rating{}, err
	}
	if movieID <= 0 {
		return models.Rating{}, ErrInvalidMovieID
	}
	if value < 1 || value > 5 {
		return models.Rating{}, ErrInvalidRatingValue
	}
	rating := models.Rating{MovieID: movieID, Rating: value, Timestamp: s.now().UnixMilli()}
	if err := s.repos.Ratings.Put(ctx, id.UserID, rating); err != nil {
		return models.Rating{}, err
	}
	s.mirror(id.UserID, func() { s.ratings[movieID] = rating })
	return rating, nil
}

// AddReview sets the user's review of a movie, replacing any earlier one.
func (s *Store) AddReview(ctx context.Context, movieID, rating int, text string) (models.Review, error) {
	id, err := s.signedIn()
	if err != nil {
		return models.Review{}, err
	}
	if movieID <= 0 {
		return models.Review{}, ErrInvalidMovieID
	}
	if rating < 1 || rating > 5 {
		return models.Review{}, ErrInvalidRatingValue
	}
	review := models.Review{
		MovieID:    movieID,
		UserID:     id.UserID,
		UserEmail:  id.Email,
		Rating:     rating,
		ReviewText: text,
		Timestamp:  s.now().UnixMilli(),
	}
	if err := s.repos.Reviews.Put(ctx, review); err != nil {
		return models.Review{}, err
	}
	s.mirror(id.UserID, func() {
		for i := range s.reviews {
			if s.reviews[i].MovieID == movieID {
				s.reviews[i] = review
				return
			}
		}
		s.reviews = append(s.reviews, review)
	})
	return review, nil
}

// UpdateProfile merges the provided fields into the profile and returns the result.
func (s *Store) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.UserProfile, error) {
	id, err := s.signedIn()
	if err != nil {
		return models.UserProfile{}, err
	}
	if !patch.IsEmpty() {
		if err := s.repos.Profiles.Merge(ctx, id.UserID, patch.Fields()); err != nil {
			return models.UserProfile{}, err
		}
	}
	var updated models.UserProfile
	s.mirror(id.UserID, func() {
		s.profile = s.profile.Apply(patch)
		updated = s.profile
	})
	return updated, nil
}

func (s *Store) Watchlist() []models.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.WatchlistEntry(nil), s.watchlist...)
}

func (s *Store) IsInWatchlist(movieID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.watchlist {
		if e.ID == movieID {
			return true
		}
	}
	return false
}

func (s *Store) Ratings() map[int]models.Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]models.Rating, len(s.ratings))
	for k, v := range s.ratings {
		out[k] = v
	}
	return out
}

func (s *Store) Rating(movieID int) (models.Rating, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ratings[movieID]
	return r, ok
}

func (s *Store) Reviews() []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Review(nil), s.reviews...)
}

func (s *Store) UserReviewForMovie(movieID int) (models.Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reviews {
		if r.MovieID == movieID && r.UserID == s.identity.UserID {
			return r, true
		}
	}
	return models.Review{}, false
}

func (s *Store) Profile() models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

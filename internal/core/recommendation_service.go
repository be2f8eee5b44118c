package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cinedex-backend-go/internal/models"
	"cinedex-backend-go/internal/tmdb"
)

var (
	ErrSignInRequired    = errors.New("sign in required")
	ErrEmptyWatchlist    = errors.New("add movies to your watchlist to get recommendations")
	ErrNoRecommendations = errors.New("no recommendations found for movies in your watchlist")
	// ErrSuperseded is returned by a cycle that a newer cycle or an
	// invalidation cancelled before it finished.
	ErrSuperseded = errors.New("recommendation cycle superseded")
)

const defaultRecommendationTimeout = 10 * time.Second

type cycle struct {
	id     uint64
	cancel context.CancelCauseFunc
}

type recommendationService struct {
	source  MetadataSource
	filters *FilterCatalogue
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	seq    uint64
	cycles map[string]*cycle
}

// NewRecommendationService creates a RecommendationService. timeout bounds
// each per-movie call; a call that exceeds it contributes nothing.
func NewRecommendationService(source MetadataSource, filters *FilterCatalogue, timeout time.Duration, logger *zap.Logger) RecommendationService {
	if timeout <= 0 {
		timeout = defaultRecommendationTimeout
	}
	return &recommendationService{
		source:  source,
		filters: filters,
		timeout: timeout,
		logger:  logger.Named("recommendations"),
		cycles:  make(map[string]*cycle),
	}
}

func (s *recommendationService) Recommend(ctx context.Context, userID string, watchlist []models.WatchlistEntry) ([]models.MovieSummary, error) {
	if userID == "" {
		return nil, ErrSignInRequired
	}
	if len(watchlist) == 0 {
		return nil, ErrEmptyWatchlist
	}

	cycleCtx, c := s.begin(ctx, userID)
	defer s.end(userID, c)

	batches := make([][]tmdb.MovieResult, len(watchlist))
	var g errgroup.Group
	for i, entry := range watchlist {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(cycleCtx, s.timeout)
			defer cancel()

			res, err := s.source.MovieRecommendations(callCtx, entry.ID, 1)
			if err != nil {
				s.logger.Debug("Recommendations unavailable for movie",
					zap.String("user_id", userID),
					zap.Int("movie_id", entry.ID),
					zap.Error(err))
				return nil
			}
			batches[i] = res.Results
			return nil
		})
	}
	_ = g.Wait()

	if errors.Is(context.Cause(cycleCtx), ErrSuperseded) {
		return nil, ErrSuperseded
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := AggregateRecommendations(batches)
	if len(merged) == 0 {
		return nil, ErrNoRecommendations
	}
	return toSummaries(s.filters, merged), nil
}

func (s *recommendationService) Invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cycles[userID]; ok {
		c.cancel(ErrSuperseded)
		delete(s.cycles, userID)
	}
}

// begin starts a new cycle for the user, superseding the previous one.
func (s *recommendationService) begin(ctx context.Context, userID string) (context.Context, *cycle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.cycles[userID]; ok {
		prev.cancel(ErrSuperseded)
	}
	s.seq++
	cctx, cancel := context.WithCancelCause(ctx)
	c := &cycle{id: s.seq, cancel: cancel}
	s.cycles[userID] = c
	return cctx, c
}

func (s *recommendationService) end(userID string, c *cycle) {
	s.mu.Lock()
	if cur, ok := s.cycles[userID]; ok && cur.id == c.id {
		delete(s.cycles, userID)
	}
	s.mu.Unlock()
	c.cancel(nil)
}

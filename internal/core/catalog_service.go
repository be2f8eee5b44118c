package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cinedex-backend-go/internal/models"
	"cinedex-backend-go/internal/tmdb"
)

var (
	// ErrNoResults marks a successful call that found nothing.
	ErrNoResults  = errors.New("no results")
	ErrEmptyQuery = errors.New("search query is empty")
)

const (
	castLimit       = 8
	knownForLimit   = 10
	imageSetLimit   = 15
	imageFanOut     = 8
	posterLanguages = "en,null"
)

// CatalogConfig tunes the catalog service.
type CatalogConfig struct {
	SearchRetries    int
	SearchRetryDelay time.Duration
}

type catalogService struct {
	source  MetadataSource
	filters *FilterCatalogue
	cfg     CatalogConfig
	logger  *zap.Logger

	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

// NewCatalogService creates a CatalogService backed by the metadata API.
func NewCatalogService(source MetadataSource, filters *FilterCatalogue, cfg CatalogConfig, logger *zap.Logger) CatalogService {
	if cfg.SearchRetries < 1 {
		cfg.SearchRetries = 1
	}
	return &catalogService{
		source:  source,
		filters: filters,
		cfg:     cfg,
		logger:  logger.Named("catalog"),
		now:     time.Now,
		shuffle: rand.Shuffle,
	}
}

func (s *catalogService) ListMovies(ctx context.Context, q MovieQuery) (*models.MoviePage, error) {
	plan, err := BuildQueryPlan(q)
	if err != nil {
		return nil, err
	}
	first := plan.Requests[0]

	if first.Kind == RequestSearch {
		page, err := s.SearchMovies(ctx, first.Query, first.Page)
		if errors.Is(err, ErrNoResults) {
			return &models.MoviePage{Page: first.Page, Results: []models.MovieSummary{}}, nil
		}
		return page, err
	}

	if !plan.Interleave {
		res, err := s.source.Discover(ctx, first.Params)
		if err != nil {
			return nil, fmt.Errorf("discover movies: %w", err)
		}
		return &models.MoviePage{Page: first.Page, Results: toSummaries(s.filters, res.Results)}, nil
	}

	// Every branch settles before merging; a failed branch contributes nothing.
	branches := make([][]tmdb.MovieResult, len(plan.Requests))
	var g errgroup.Group
	for i, req := range plan.Requests {
		g.Go(func() error {
			res, err := s.source.Discover(ctx, req.Params)
			if err != nil {
				s.logger.Warn("Discover branch failed",
					zap.String("year", req.YearToken),
					zap.String("kind", string(tmdb.Classify(err))),
					zap.Error(err))
				return nil
			}
			branches[i] = res.Results
			return nil
		})
	}
	_ = g.Wait()

	return &models.MoviePage{Page: first.Page, Results: toSummaries(s.filters, Interleave(branches))}, nil
}

func (s *catalogService) SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if page < 1 {
		page = 1
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.SearchRetries; attempt++ {
		res, err := s.source.SearchMovies(ctx, query, page)
		if err == nil {
			if len(res.Results) == 0 {
				return nil, ErrNoResults
			}
			return &models.MoviePage{Page: page, Results: toSummaries(s.filters, res.Results)}, nil
		}
		lastErr = err
		s.logger.Warn("Movie search failed",
			zap.String("query", query),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.cfg.SearchRetries),
			zap.Error(err))

		if attempt == s.cfg.SearchRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("search movies: %w", ctx.Err())
		case <-time.After(s.cfg.SearchRetryDelay):
		}
	}
	return nil, fmt.Errorf("search movies after %d attempts: %w", s.cfg.SearchRetries, lastErr)
}

func (s *catalogService) SearchPeople(ctx context.Context, query string, page int) (*models.PeoplePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	res, err := s.source.SearchPeople(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}
	return peoplePage(res), nil
}

func (s *catalogService) PopularPeople(ctx context.Context, page int) (*models.PeoplePage, error) {
	res, err := s.source.PopularPeople(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("popular people: %w", err)
	}
	return peoplePage(res), nil
}

func peoplePage(res *tmdb.PersonPage) *models.PeoplePage {
	out := &models.PeoplePage{Page: res.Page, Results: make([]models.PersonSummary, 0, len(res.Results))}
	for _, p := range res.Results {
		out.Results = append(out.Results, toPerson(p))
	}
	return out
}

func (s *catalogService) Trending(ctx context.Context) (*models.MoviePage, error) {
	res, err := s.source.Trending(ctx)
	if err != nil {
		return nil, fmt.Errorf("trending movies: %w", err)
	}
	return &models.MoviePage{Page: res.Page, Results: toSummaries(s.filters, res.Results)}, nil
}

func (s *catalogService) TopRated(ctx context.Context, page int) (*models.MoviePage, error) {
	res, err := s.source.TopRated(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("top rated movies: %w", err)
	}
	return &models.MoviePage{Page: res.Page, Results: toSummaries(s.filters, res.Results)}, nil
}

func (s *catalogService) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	res, err := s.source.Popular(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("popular movies: %w", err)
	}
	return &models.MoviePage{Page: res.Page, Results: toSummaries(s.filters, res.Results)}, nil
}

func (s *catalogService) MovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	d, err := s.source.MovieDetails(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("movie %d: %w", movieID, err)
	}

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}
	detail := &models.MovieDetail{
		MovieSummary: models.MovieSummary{
			ID:          d.ID,
			Title:       d.Title,
			Overview:    d.Overview,
			PosterPath:  d.PosterPath,
			PosterURL:   tmdb.BuildPosterURL(d.PosterPath),
			BackdropURL: tmdb.BuildBackdropURL(d.BackdropPath),
			ReleaseDate: d.ReleaseDate,
			Year:        releaseYear(d.ReleaseDate),
			VoteAverage: d.VoteAverage,
			Popularity:  d.Popularity,
			Genres:      genres,
		},
		Tagline:    d.Tagline,
		Runtime:    d.Runtime,
		Cast:       make([]models.CastMember, 0, castLimit),
		TrailerKey: pickTrailer(d.Videos.Results),
	}
	for i, c := range d.Credits.Cast {
		if i == castLimit {
			break
		}
		detail.Cast = append(detail.Cast, models.CastMember{
			ID:         c.ID,
			Name:       c.Name,
			Character:  c.Character,
			ProfileURL: tmdb.BuildImageURL(tmdb.SizePosterW500, c.ProfilePath),
		})
	}
	return detail, nil
}

// MovieImages returns up to 15 shuffled image URLs mixing every backdrop with
// the English and language-neutral posters.
func (s *catalogService) MovieImages(ctx context.Context, movieID int) ([]string, error) {
	var backdrops, posters []tmdb.Image
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set, err := s.source.MovieImages(gctx, movieID, "")
		if err != nil {
			return err
		}
		backdrops = set.Backdrops
		return nil
	})
	g.Go(func() error {
		set, err := s.source.MovieImages(gctx, movieID, posterLanguages)
		if err != nil {
			return err
		}
		posters = set.Posters
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("movie %d images: %w", movieID, err)
	}

	urls := make([]string, 0, len(backdrops)+len(posters))
	for _, img := range append(backdrops, posters...) {
		if img.FilePath == "" {
			continue
		}
		urls = append(urls, tmdb.BuildImageURL(tmdb.SizePosterW500, img.FilePath))
	}
	s.shuffle(len(urls), func(i, j int) { urls[i], urls[j] = urls[j], urls[i] })
	if len(urls) > imageSetLimit {
		urls = urls[:imageSetLimit]
	}
	return urls, nil
}

func (s *catalogService) PersonDetail(ctx context.Context, personID int) (*models.PersonDetail, error) {
	var (
		person  *tmdb.Person
		credits *tmdb.PersonCredits
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		person, err = s.source.PersonDetails(gctx, personID)
		return err
	})
	g.Go(func() error {
		var err error
		credits, err = s.source.PersonMovieCredits(gctx, personID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("person %d: %w", personID, err)
	}

	cast := append([]tmdb.PersonCastCredit(nil), credits.Cast...)
	sort.SliceStable(cast, func(i, j int) bool { return cast[i].Popularity > cast[j].Popularity })
	if len(cast) > knownForLimit {
		cast = cast[:knownForLimit]
	}

	detail := &models.PersonDetail{
		PersonSummary: toPerson(*person),
		Biography:     person.Biography,
		Birthday:      person.Birthday,
		PlaceOfBirth:  person.PlaceOfBirth,
		KnownFor:      make([]models.MovieSummary, 0, len(cast)),
	}
	for _, c := range cast {
		m := toSummary(s.filters, c.MovieResult)
		m.PosterURL = tmdb.BuildImageURL(tmdb.SizeBackdropW300, c.PosterPath)
		detail.KnownFor = append(detail.KnownFor, m)
	}
	return detail, nil
}

// HomeFeed loads trending and top-rated movies, each with its image set.
// A movie whose images cannot be loaded gets an empty set.
func (s *catalogService) HomeFeed(ctx context.Context) (*models.HomeFeed, error) {
	var trending, topRated *tmdb.MoviePage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trending, err = s.source.Trending(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		topRated, err = s.source.TopRated(gctx, 1)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("home feed: %w", err)
	}

	feed := &models.HomeFeed{
		Trending: s.homeEntries(trending.Results),
		TopRated: s.homeEntries(topRated.Results),
	}

	var images errgroup.Group
	images.SetLimit(imageFanOut)
	for _, list := range [][]models.HomeEntry{feed.Trending, feed.TopRated} {
		for i := range list {
			entry := &list[i]
			images.Go(func() error {
				urls, err := s.MovieImages(ctx, entry.Movie.ID)
				if err != nil {
					s.logger.Debug("Home feed images unavailable", zap.Int("movie_id", entry.Movie.ID), zap.Error(err))
					return nil
				}
				entry.Images = urls
				return nil
			})
		}
	}
	_ = images.Wait()
	return feed, nil
}

func (s *catalogService) homeEntries(results []tmdb.MovieResult) []models.HomeEntry {
	out := make([]models.HomeEntry, 0, len(results))
	for _, m := range results {
		out = append(out, models.HomeEntry{Movie: toSummary(s.filters, m), Images: []string{}})
	}
	return out
}

func (s *catalogService) FilterOptions() models.FilterOptions {
	return s.filters.Options(s.now().Year())
}

func (s *catalogService) SyncGenres(ctx context.Context) error {
	genres, err := s.source.Genres(ctx)
	if err != nil {
		return fmt.Errorf("sync genres: %w", err)
	}
	added := s.filters.Learn(genres)
	s.logger.Info("Genre table synced", zap.Int("vendor_genres", len(genres)), zap.Int("added", added))
	return nil
}

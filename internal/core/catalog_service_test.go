package core

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cinedex-backend-go/internal/tmdb"
)

func newTestCatalog(t *testing.T, source MetadataSource) *catalogService {
	t.Helper()
	fc, err := LoadFilterCatalogue()
	require.NoError(t, err)
	svc := NewCatalogService(source, fc, CatalogConfig{SearchRetries: 3, SearchRetryDelay: time.Millisecond}, zap.NewNop()).(*catalogService)
	svc.shuffle = func(int, func(i, j int)) {}
	return svc
}

func hasYear(year string) interface{} {
	return mock.MatchedBy(func(p url.Values) bool { return p.Get("primary_release_year") == year })
}

func TestListMoviesInterleavesYearBranches(t *testing.T) {
	src := &mockSource{}
	src.On("Discover", mock.Anything, hasYear("2020")).Return(moviePage(movie(1, "A0", 7), movie(2, "A1", 7)), nil)
	src.On("Discover", mock.Anything, hasYear("2021")).Return(moviePage(movie(3, "B0", 7), movie(4, "B1", 7), movie(5, "B2", 7)), nil)
	src.On("Discover", mock.Anything, hasYear("2022")).Return(moviePage(movie(6, "C0", 7)), nil)

	svc := newTestCatalog(t, src)
	page, err := svc.ListMovies(context.Background(), MovieQuery{Years: []string{"2020", "2021", "2022"}})
	require.NoError(t, err)

	got := make([]string, 0, len(page.Results))
	for _, m := range page.Results {
		got = append(got, m.Title)
	}
	assert.Equal(t, []string{"A0", "B0", "C0", "A1", "B1", "B2"}, got)
	src.AssertNumberOfCalls(t, "Discover", 3)
}

func TestListMoviesSwallowsFailedBranch(t *testing.T) {
	src := &mockSource{}
	src.On("Discover", mock.Anything, hasYear("2020")).Return(nil, &tmdb.APIError{StatusCode: 500, Endpoint: "/discover/movie"})
	src.On("Discover", mock.Anything, hasYear("2021")).Return(moviePage(movie(3, "B0", 7)), nil)

	svc := newTestCatalog(t, src)
	page, err := svc.ListMovies(context.Background(), MovieQuery{Years: []string{"2020", "2021"}})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "B0", page.Results[0].Title)
}

func TestListMoviesSingleDiscoverError(t *testing.T) {
	src := &mockSource{}
	src.On("Discover", mock.Anything, mock.Anything).Return(nil, &tmdb.APIError{StatusCode: 429, Endpoint: "/discover/movie"})

	svc := newTestCatalog(t, src)
	_, err := svc.ListMovies(context.Background(), MovieQuery{Genres: []string{"28"}})
	require.Error(t, err)
	assert.Equal(t, tmdb.KindRateLimit, tmdb.Classify(err))
}

func TestListMoviesSearchWithNoResults(t *testing.T) {
	src := &mockSource{}
	src.On("SearchMovies", mock.Anything, "zzzz", 1).Return(moviePage(), nil).Once()

	svc := newTestCatalog(t, src)
	page, err := svc.ListMovies(context.Background(), MovieQuery{Search: "zzzz", Years: []string{"2020"}})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	src.AssertNotCalled(t, "Discover", mock.Anything, mock.Anything)
}

func TestSearchMoviesRetries(t *testing.T) {
	src := &mockSource{}
	src.On("SearchMovies", mock.Anything, "heat", 1).Return(nil, errors.New("connection reset")).Twice()
	src.On("SearchMovies", mock.Anything, "heat", 1).Return(moviePage(movie(949, "Heat", 7.9)), nil).Once()

	svc := newTestCatalog(t, src)
	page, err := svc.SearchMovies(context.Background(), "heat", 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Heat", page.Results[0].Title)
	src.AssertNumberOfCalls(t, "SearchMovies", 3)
}

func TestSearchMoviesGivesUp(t *testing.T) {
	src := &mockSource{}
	src.On("SearchMovies", mock.Anything, "heat", 1).Return(nil, errors.New("connection reset"))

	svc := newTestCatalog(t, src)
	_, err := svc.SearchMovies(context.Background(), "heat", 1)
	require.Error(t, err)
	src.AssertNumberOfCalls(t, "SearchMovies", 3)

	_, err = svc.SearchMovies(context.Background(), "   ", 1)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestMovieDetailLimitsCastAndPicksTrailer(t *testing.T) {
	d := &tmdb.MovieDetails{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", PosterPath: "/p.jpg", BackdropPath: "/b.jpg"}
	for i := 0; i < 12; i++ {
		d.Credits.Cast = append(d.Credits.Cast, tmdb.CastCredit{ID: i, Name: "actor"})
	}
	d.Videos.Results = []tmdb.Video{
		{Key: "teaser", Site: "YouTube", Type: "Teaser"},
		{Key: "vimeo", Site: "Vimeo", Type: "Trailer"},
		{Key: "yt", Site: "YouTube", Type: "Trailer"},
	}
	src := &mockSource{}
	src.On("MovieDetails", mock.Anything, 550).Return(d, nil)

	svc := newTestCatalog(t, src)
	detail, err := svc.MovieDetail(context.Background(), 550)
	require.NoError(t, err)

	assert.Len(t, detail.Cast, castLimit)
	assert.Equal(t, "yt", detail.TrailerKey)
	assert.Equal(t, "1999", detail.Year)
	assert.Equal(t, tmdb.ImageBaseURL+"original/b.jpg", detail.BackdropURL)
	assert.Equal(t, tmdb.ImageBaseURL+"w500/p.jpg", detail.PosterURL)
}

func TestPickTrailerFallsBackToFirstVideo(t *testing.T) {
	assert.Equal(t, "first", pickTrailer([]tmdb.Video{{Key: "first", Type: "Clip"}, {Key: "second", Type: "Featurette"}}))
	assert.Empty(t, pickTrailer(nil))
}

func TestMovieImagesCapped(t *testing.T) {
	backdrops := make([]tmdb.Image, 12)
	posters := make([]tmdb.Image, 10)
	for i := range backdrops {
		backdrops[i] = tmdb.Image{FilePath: "/b.jpg"}
	}
	for i := range posters {
		posters[i] = tmdb.Image{FilePath: "/p.jpg"}
	}
	src := &mockSource{}
	src.On("MovieImages", mock.Anything, 550, "").Return(&tmdb.ImageSet{Backdrops: backdrops, Posters: posters}, nil)
	src.On("MovieImages", mock.Anything, 550, posterLanguages).Return(&tmdb.ImageSet{Posters: posters}, nil)

	svc := newTestCatalog(t, src)
	urls, err := svc.MovieImages(context.Background(), 550)
	require.NoError(t, err)
	assert.Len(t, urls, imageSetLimit)
	assert.Equal(t, tmdb.ImageBaseURL+"w500/b.jpg", urls[0])
}

func TestPersonDetailKnownForByPopularity(t *testing.T) {
	credits := &tmdb.PersonCredits{ID: 287}
	for i := 1; i <= 12; i++ {
		c := tmdb.PersonCastCredit{MovieResult: movie(i, "m", 6)}
		c.Popularity = float64(i)
		c.PosterPath = "/k.jpg"
		credits.Cast = append(credits.Cast, c)
	}
	src := &mockSource{}
	src.On("PersonDetails", mock.Anything, 287).Return(&tmdb.Person{ID: 287, Name: "Brad Pitt", ProfilePath: "/bp.jpg"}, nil)
	src.On("PersonMovieCredits", mock.Anything, 287).Return(credits, nil)

	svc := newTestCatalog(t, src)
	person, err := svc.PersonDetail(context.Background(), 287)
	require.NoError(t, err)

	require.Len(t, person.KnownFor, knownForLimit)
	assert.Equal(t, 12, person.KnownFor[0].ID)
	assert.Equal(t, 3, person.KnownFor[knownForLimit-1].ID)
	assert.Equal(t, tmdb.ImageBaseURL+"w300/k.jpg", person.KnownFor[0].PosterURL)
	assert.Equal(t, tmdb.ImageBaseURL+"w500/bp.jpg", person.ProfileURL)
}

func TestHomeFeedToleratesImageFailures(t *testing.T) {
	src := &mockSource{}
	src.On("Trending", mock.Anything).Return(moviePage(movie(1, "Trending", 7)), nil)
	src.On("TopRated", mock.Anything, 1).Return(moviePage(movie(2, "Top", 9)), nil)
	src.On("MovieImages", mock.Anything, 1, mock.Anything).Return(&tmdb.ImageSet{Backdrops: []tmdb.Image{{FilePath: "/t.jpg"}}}, nil)
	src.On("MovieImages", mock.Anything, 2, mock.Anything).Return(nil, &tmdb.APIError{StatusCode: 404})

	svc := newTestCatalog(t, src)
	feed, err := svc.HomeFeed(context.Background())
	require.NoError(t, err)

	require.Len(t, feed.Trending, 1)
	require.Len(t, feed.TopRated, 1)
	assert.Equal(t, []string{tmdb.ImageBaseURL + "w500/t.jpg"}, feed.Trending[0].Images)
	assert.NotNil(t, feed.TopRated[0].Images)
	assert.Empty(t, feed.TopRated[0].Images)
}

func TestHomeFeedFailsWhenListFails(t *testing.T) {
	src := &mockSource{}
	src.On("Trending", mock.Anything).Return(nil, &tmdb.NetworkError{Endpoint: "/trending/movie/week", Err: errors.New("dial tcp")})
	src.On("TopRated", mock.Anything, 1).Return(moviePage(), nil).Maybe()

	svc := newTestCatalog(t, src)
	_, err := svc.HomeFeed(context.Background())
	require.Error(t, err)
	assert.Equal(t, tmdb.KindNetwork, tmdb.Classify(err))
}

func TestFilterOptionsUseCurrentYear(t *testing.T) {
	svc := newTestCatalog(t, &mockSource{})
	svc.now = func() time.Time { return time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC) }

	opts := svc.FilterOptions()
	assert.Equal(t, []string{"2005-2007", "2008-2010", "2011-2013", "2014-2016", "2017", "2018"}, opts.Years)
}

func TestSyncGenres(t *testing.T) {
	src := &mockSource{}
	src.On("Genres", mock.Anything).Return([]tmdb.Genre{{ID: 37, Name: "Western"}}, nil)

	svc := newTestCatalog(t, src)
	require.NoError(t, svc.SyncGenres(context.Background()))
	assert.Equal(t, []string{"Western"}, svc.filters.Names([]int{37}))
}

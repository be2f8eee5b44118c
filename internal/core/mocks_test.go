package core

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"

	"cinedex-backend-go/internal/tmdb"
)

type mockSource struct{ mock.Mock }

func (m *mockSource) page(args mock.Arguments) (*tmdb.MoviePage, error) {
	p, _ := args.Get(0).(*tmdb.MoviePage)
	return p, args.Error(1)
}

func (m *mockSource) Trending(ctx context.Context) (*tmdb.MoviePage, error) {
	return m.page(m.Called(ctx))
}

func (m *mockSource) TopRated(ctx context.Context, page int) (*tmdb.MoviePage, error) {
	return m.page(m.Called(ctx, page))
}

func (m *mockSource) Popular(ctx context.Context, page int) (*tmdb.MoviePage, error) {
	return m.page(m.Called(ctx, page))
}

func (m *mockSource) SearchMovies(ctx context.Context, query string, page int) (*tmdb.MoviePage, error) {
	return m.page(m.Called(ctx, query, page))
}

func (m *mockSource) Discover(ctx context.Context, params url.Values) (*tmdb.MoviePage, error) {
	return m.page(m.Called(ctx, params))
}

func (m *mockSource) MovieRecommendations(ctx context.Context, movieID, page int) (*tmdb.MoviePage, error) {
	return m.page(m.Called(ctx, movieID, page))
}

func (m *mockSource) MovieDetails(ctx context.Context, movieID int) (*tmdb.MovieDetails, error) {
	args := m.Called(ctx, movieID)
	d, _ := args.Get(0).(*tmdb.MovieDetails)
	return d, args.Error(1)
}

func (m *mockSource) MovieImages(ctx context.Context, movieID int, languages string) (*tmdb.ImageSet, error) {
	args := m.Called(ctx, movieID, languages)
	s, _ := args.Get(0).(*tmdb.ImageSet)
	return s, args.Error(1)
}

func (m *mockSource) SearchPeople(ctx context.Context, query string, page int) (*tmdb.PersonPage, error) {
	args := m.Called(ctx, query, page)
	p, _ := args.Get(0).(*tmdb.PersonPage)
	return p, args.Error(1)
}

func (m *mockSource) PopularPeople(ctx context.Context, page int) (*tmdb.PersonPage, error) {
	args := m.Called(ctx, page)
	p, _ := args.Get(0).(*tmdb.PersonPage)
	return p, args.Error(1)
}

func (m *mockSource) PersonDetails(ctx context.Context, personID int) (*tmdb.Person, error) {
	args := m.Called(ctx, personID)
	p, _ := args.Get(0).(*tmdb.Person)
	return p, args.Error(1)
}

func (m *mockSource) PersonMovieCredits(ctx context.Context, personID int) (*tmdb.PersonCredits, error) {
	args := m.Called(ctx, personID)
	c, _ := args.Get(0).(*tmdb.PersonCredits)
	return c, args.Error(1)
}

func (m *mockSource) Genres(ctx context.Context) ([]tmdb.Genre, error) {
	args := m.Called(ctx)
	g, _ := args.Get(0).([]tmdb.Genre)
	return g, args.Error(1)
}

func score(v float64) *float64 { return &v }

func movie(id int, title string, vote float64) tmdb.MovieResult {
	return tmdb.MovieResult{ID: id, Title: title, VoteAverage: score(vote)}
}

func moviePage(results ...tmdb.MovieResult) *tmdb.MoviePage {
	return &tmdb.MoviePage{Page: 1, Results: results}
}

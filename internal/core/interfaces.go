package core

import (
	"context"
	"net/url"

	"cinedex-backend-go/internal/models"
	"cinedex-backend-go/internal/tmdb"
)

// MetadataSource is the part of the metadata API the services rely on.
// *tmdb.Client implements it.
type MetadataSource interface {
	Trending(ctx context.Context) (*tmdb.MoviePage, error)
	TopRated(ctx context.Context, page int) (*tmdb.MoviePage, error)
	Popular(ctx context.Context, page int) (*tmdb.MoviePage, error)
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.MoviePage, error)
	Discover(ctx context.Context, params url.Values) (*tmdb.MoviePage, error)
	MovieRecommendations(ctx context.Context, movieID, page int) (*tmdb.MoviePage, error)
	MovieDetails(ctx context.Context, movieID int) (*tmdb.MovieDetails, error)
	MovieImages(ctx context.Context, movieID int, languages string) (*tmdb.ImageSet, error)
	SearchPeople(ctx context.Context, query string, page int) (*tmdb.PersonPage, error)
	PopularPeople(ctx context.Context, page int) (*tmdb.PersonPage, error)
	PersonDetails(ctx context.Context, personID int) (*tmdb.Person, error)
	PersonMovieCredits(ctx context.Context, personID int) (*tmdb.PersonCredits, error)
	Genres(ctx context.Context) ([]tmdb.Genre, error)
}

// CatalogService serves the public movie and people listings.
type CatalogService interface {
	// ListMovies executes the query plan for the selected filters.
	ListMovies(ctx context.Context, q MovieQuery) (*models.MoviePage, error)
	// SearchMovies is the plain text search, retried on failure.
	SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error)
	SearchPeople(ctx context.Context, query string, page int) (*models.PeoplePage, error)
	PopularPeople(ctx context.Context, page int) (*models.PeoplePage, error)
	Trending(ctx context.Context) (*models.MoviePage, error)
	TopRated(ctx context.Context, page int) (*models.MoviePage, error)
	Popular(ctx context.Context, page int) (*models.MoviePage, error)
	MovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error)
	MovieImages(ctx context.Context, movieID int) ([]string, error)
	PersonDetail(ctx context.Context, personID int) (*models.PersonDetail, error)
	HomeFeed(ctx context.Context) (*models.HomeFeed, error)
	FilterOptions() models.FilterOptions
	// SyncGenres teaches the genre table any vendor genres it lacks.
	SyncGenres(ctx context.Context) error
}

// RecommendationService aggregates recommendations from a user's watchlist.
type RecommendationService interface {
	Recommend(ctx context.Context, userID string, watchlist []models.WatchlistEntry) ([]models.MovieSummary, error)
	// Invalidate cancels the user's in-flight recommendation cycle, if any.
	Invalidate(userID string)
}

// AccountService handles registration and sign-in.
type AccountService interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.Account, error)
	SignIn(ctx context.Context, req models.SignInRequest) (*models.Account, error)
	SignInFederated(ctx context.Context, req models.FederatedSignInRequest) (*models.Account, error)
	SignOut(ctx context.Context, userID, email string) error
}

package db

import (
	"context"

	"cinedex-backend-go/internal/models"
)

// ProfileRepository stores userProfiles/{uid}.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	// Merge writes only the given fields; nested maps are merged field by field.
	Merge(ctx context.Context, userID string, fields map[string]interface{}) error
}

// AccountRepository stores the users/{uid} registration record.
type AccountRepository interface {
	Create(ctx context.Context, userID string, rec models.RegistrationRecord) error
}

// WatchlistRepository stores watchlists/{uid}/movies/{movieId}.
type WatchlistRepository interface {
	List(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
	Put(ctx context.Context, userID string, entry models.WatchlistEntry) error
	// Delete succeeds when the entry does not exist.
	Delete(ctx context.Context, userID string, movieID int) error
}

// ReviewRepository stores reviews/{uid}_{movieId}.
type ReviewRepository interface {
	Put(ctx context.Context, review models.Review) error
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	ListByMovie(ctx context.Context, movieID int) ([]models.Review, error)
}

// RatingRepository stores the userRatings/{uid} map document.
type RatingRepository interface {
	Get(ctx context.Context, userID string) (map[int]models.Rating, error)
	Put(ctx context.Context, userID string, rating models.Rating) error
}

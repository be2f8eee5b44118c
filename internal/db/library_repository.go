package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"cinedex-backend-go/internal/models"
)

const (
	watchlistsCollection = "watchlists"
	watchlistMovies      = "movies"
	reviewsCollection    = "reviews"
	ratingsCollection    = "userRatings"
)

type firestoreWatchlistRepository struct {
	client *firestore.Client
}

func NewFirestoreWatchlistRepository(client *firestore.Client) WatchlistRepository {
	return &firestoreWatchlistRepository{client: client}
}

func (r *firestoreWatchlistRepository) movies(userID string) *firestore.CollectionRef {
	return r.client.Collection(watchlistsCollection).Doc(userID).Collection(watchlistMovies)
}

func (r *firestoreWatchlistRepository) List(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	iter := r.movies(userID).Documents(ctx)
	defer iter.Stop()

	entries := make([]models.WatchlistEntry, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list watchlist of user '%s': %w", userID, err)
		}
		var entry models.WatchlistEntry
		if err := snap.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode watchlist entry '%s': %w", snap.Ref.ID, err)
		}
		if entry.ID == 0 {
			entry.ID, _ = strconv.Atoi(snap.Ref.ID)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *firestoreWatchlistRepository) Put(ctx context.Context, userID string, entry models.WatchlistEntry) error {
	if userID == "" || entry.ID == 0 {
		return errors.New("userID and movie id are required")
	}
	if _, err := r.movies(userID).Doc(entry.DocID()).Set(ctx, entry); err != nil {
		return fmt.Errorf("failed to add movie %d to watchlist of user '%s': %w", entry.ID, userID, err)
	}
	return nil
}

func (r *firestoreWatchlistRepository) Delete(ctx context.Context, userID string, movieID int) error {
	if userID == "" {
		return errors.New("userID cannot be empty")
	}
	if _, err := r.movies(userID).Doc(strconv.Itoa(movieID)).Delete(ctx); err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to remove movie %d from watchlist of user '%s': %w", movieID, userID, err)
	}
	return nil
}

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) ReviewRepository {
	return &firestoreReviewRepository{client: client}
}

// Put writes the review under its composite key, replacing any earlier review.
func (r *firestoreReviewRepository) Put(ctx context.Context, review models.Review) error {
	if review.UserID == "" || review.MovieID == 0 {
		return errors.New("review requires userId and movieId")
	}
	docID := models.ReviewDocID(review.UserID, review.MovieID)
	if _, err := r.client.Collection(reviewsCollection).Doc(docID).Set(ctx, review); err != nil {
		return fmt.Errorf("failed to write review '%s': %w", docID, err)
	}
	return nil
}

func (r *firestoreReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	return r.list(ctx, r.client.Collection(reviewsCollection).Where("userId", "==", userID))
}

func (r *firestoreReviewRepository) ListByMovie(ctx context.Context, movieID int) ([]models.Review, error) {
	return r.list(ctx, r.client.Collection(reviewsCollection).Where("movieId", "==", movieID))
}

func (r *firestoreReviewRepository) list(ctx context.Context, q firestore.Query) ([]models.Review, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	reviews := make([]models.Review, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query reviews: %w", err)
		}
		var review models.Review
		if err := snap.DataTo(&review); err != nil {
			return nil, fmt.Errorf("failed to decode review '%s': %w", snap.Ref.ID, err)
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

type firestoreRatingRepository struct {
	client *firestore.Client
}

func NewFirestoreRatingRepository(client *firestore.Client) RatingRepository {
	return &firestoreRatingRepository{client: client}
}

func (r *firestoreRatingRepository) Get(ctx context.Context, userID string) (map[int]models.Rating, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	snap, err := r.client.Collection(ratingsCollection).Doc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("ratings of user '%s': %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ratings of user '%s': %w", userID, err)
	}

	var raw map[string]models.Rating
	if err := snap.DataTo(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode ratings of user '%s': %w", userID, err)
	}
	return decodeRatings(raw), nil
}

// decodeRatings re-keys the stored map by movie id, skipping keys that are not ids.
func decodeRatings(raw map[string]models.Rating) map[int]models.Rating {
	out := make(map[int]models.Rating, len(raw))
	for key, rating := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if rating.MovieID == 0 {
			rating.MovieID = id
		}
		out[id] = rating
	}
	return out
}

// Put merges one rating into the per-user map document, overwriting the
// previous rating of the same movie.
func (r *firestoreRatingRepository) Put(ctx context.Context, userID string, rating models.Rating) error {
	if userID == "" || rating.MovieID == 0 {
		return errors.New("userID and movie id are required")
	}
	data := map[string]interface{}{
		strconv.Itoa(rating.MovieID): map[string]interface{}{
			"movieId":   rating.MovieID,
			"rating":    rating.Rating,
			"timestamp": rating.Timestamp,
		},
	}
	if _, err := r.client.Collection(ratingsCollection).Doc(userID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to write rating of movie %d for user '%s': %w", rating.MovieID, userID, err)
	}
	return nil
}

package models

import "strconv"

// WatchlistEntry is stored at watchlists/{uid}/movies/{movieId}.
// The movie id doubles as the document key, so an entry is either present or absent.
type WatchlistEntry struct {
	ID          int     `json:"id" firestore:"id"`
	Title       string  `json:"title" firestore:"title"`
	PosterPath  string  `json:"poster_path" firestore:"poster_path"`
	VoteAverage float64 `json:"vote_average" firestore:"vote_average"`
}

// DocID returns the document key of the entry.
func (e WatchlistEntry) DocID() string {
	return strconv.Itoa(e.ID)
}

// Review is stored at reviews/{uid}_{movieId}; one live review per user and movie.
type Review struct {
	MovieID    int    `json:"movieId" firestore:"movieId"`
	UserID     string `json:"userId" firestore:"userId"`
	UserEmail  string `json:"userEmail" firestore:"userEmail"`
	Rating     int    `json:"rating" firestore:"rating"`
	ReviewText string `json:"reviewText" firestore:"reviewText"`
	Timestamp  int64  `json:"timestamp" firestore:"timestamp"` // unix millis
}

// ReviewDocID builds the composite review key.
func ReviewDocID(userID string, movieID int) string {
	return userID + "_" + strconv.Itoa(movieID)
}

// Rating is one entry of the per-user userRatings/{uid} document.
type Rating struct {
	MovieID   int   `json:"movieId" firestore:"movieId"`
	Rating    int   `json:"rating" firestore:"rating"`
	Timestamp int64 `json:"timestamp" firestore:"timestamp"` // unix millis
}

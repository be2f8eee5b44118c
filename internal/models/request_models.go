package models

// SignUpRequest registers a new email/password account.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required,min=2,max=64"`
}

// SignInRequest signs in with email and password.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// FederatedSignInRequest exchanges an identity-provider token (e.g. a Google ID token).
type FederatedSignInRequest struct {
	ProviderID string `json:"providerId" binding:"required,oneof=google.com"`
	IDToken    string `json:"idToken" binding:"required"`
	RequestURI string `json:"requestUri" binding:"omitempty,url"`
}

// AddWatchlistRequest adds a movie to the caller's watchlist.
type AddWatchlistRequest struct {
	ID          int     `json:"id" binding:"required,gt=0"`
	Title       string  `json:"title" binding:"required"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average" binding:"gte=0,lte=10"`
}

// RatingRequest sets the caller's rating of a movie.
type RatingRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// ReviewRequest sets the caller's review of a movie.
type ReviewRequest struct {
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"reviewText" binding:"max=5000"`
}

package api

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Listing states. A "no data" state is a successful reply, not an error.
const (
	StatusOK                = "ok"
	StatusNoResults         = "no_results"
	StatusEmptyWatchlist    = "empty_watchlist"
	StatusNoRecommendations = "no_recommendations"
)

// ListResponse wraps list payloads that can legitimately be empty.
type ListResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Page    int         `json:"page,omitempty"`
	Results interface{} `json:"results"`
}

// MembershipResponse answers whether a movie is on the caller's watchlist.
type MembershipResponse struct {
	MovieID     int  `json:"movieId"`
	InWatchlist bool `json:"inWatchlist"`
}

package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cinedex-backend-go/internal/middleware"
	"cinedex-backend-go/internal/models"
	"cinedex-backend-go/internal/session"
)

// UserLibrary is the signed-in user's data as held by *session.Store.
type UserLibrary interface {
	Identity() session.Identity
	Profile() models.UserProfile
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.UserProfile, error)
	Watchlist() []models.WatchlistEntry
	IsInWatchlist(movieID int) bool
	AddToWatchlist(ctx context.Context, entry models.WatchlistEntry) error
	RemoveFromWatchlist(ctx context.Context, movieID int) error
	Reviews() []models.Review
	UserReviewForMovie(movieID int) (models.Review, bool)
	AddReview(ctx context.Context, movieID, rating int, text string) (models.Review, error)
	Ratings() map[int]models.Rating
	Rating(movieID int) (models.Rating, bool)
	AddRating(ctx context.Context, movieID, value int) (models.Rating, error)
}

// libraryFrom returns the library attached by middleware.RequireSession.
func libraryFrom(c *gin.Context) (UserLibrary, bool) {
	v, exists := c.Get(middleware.ContextSession)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "sign_in_required"})
		return nil, false
	}
	lib, ok := v.(UserLibrary)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Session has an unexpected type"})
		return nil, false
	}
	return lib, true
}

// LibraryHandler serves the caller's profile, watchlist, reviews and ratings.
type LibraryHandler struct {
	logger *zap.Logger
}

func NewLibraryHandler(logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{logger: logger}
}

// GetProfile handles GET /api/v1/me/profile
func (h *LibraryHandler) GetProfile(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, lib.Profile())
}

// UpdateProfile handles PATCH /api/v1/me/profile
func (h *LibraryHandler) UpdateProfile(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}
	profile, err := lib.UpdateProfile(c.Request.Context(), patch)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListWatchlist handles GET /api/v1/me/watchlist
func (h *LibraryHandler) ListWatchlist(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	list := lib.Watchlist()
	if len(list) == 0 {
		c.JSON(http.StatusOK, ListResponse{Status: StatusEmptyWatchlist, Results: []models.WatchlistEntry{}})
		return
	}
	c.JSON(http.StatusOK, ListResponse{Status: StatusOK, Results: list})
}

// AddToWatchlist handles POST /api/v1/me/watchlist
func (h *LibraryHandler) AddToWatchlist(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	var req models.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	entry := models.WatchlistEntry{ID: req.ID, Title: req.Title, PosterPath: req.PosterPath, VoteAverage: req.VoteAverage}
	if err := lib.AddToWatchlist(c.Request.Context(), entry); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetWatchlistEntry handles GET /api/v1/me/watchlist/:movieId
func (h *LibraryHandler) GetWatchlistEntry(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	movieID, ok := intParam(c, "movieId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, MembershipResponse{MovieID: movieID, InWatchlist: lib.IsInWatchlist(movieID)})
}

// RemoveFromWatchlist handles DELETE /api/v1/me/watchlist/:movieId
func (h *LibraryHandler) RemoveFromWatchlist(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	movieID, ok := intParam(c, "movieId")
	if !ok {
		return
	}
	if err := lib.RemoveFromWatchlist(c.Request.Context(), movieID); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListReviews handles GET /api/v1/me/reviews
func (h *LibraryHandler) ListReviews(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	reviews := lib.Reviews()
	status := StatusOK
	if len(reviews) == 0 {
		status = StatusNoResults
	}
	c.JSON(http.StatusOK, ListResponse{Status: status, Results: reviews})
}

// GetReview handles GET /api/v1/me/reviews/:movieId
func (h *LibraryHandler) GetReview(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	movieID, ok := intParam(c, "movieId")
	if !ok {
		return
	}
	review, found := lib.UserReviewForMovie(movieID)
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No review for this movie"})
		return
	}
	c.JSON(http.StatusOK, review)
}

// PutReview handles PUT /api/v1/me/reviews/:movieId
func (h *LibraryHandler) PutReview(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	movieID, ok := intParam(c, "movieId")
	if !ok {
		return
	}
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	review, err := lib.AddReview(c.Request.Context(), movieID, req.Rating, req.ReviewText)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// ListRatings handles GET /api/v1/me/ratings
func (h *LibraryHandler) ListRatings(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	ratings := lib.Ratings()
	status := StatusOK
	if len(ratings) == 0 {
		status = StatusNoResults
	}
	c.JSON(http.StatusOK, ListResponse{Status: status, Results: ratings})
}

// GetRating handles GET /api/v1/me/ratings/:movieId
func (h *LibraryHandler) GetRating(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	movieID, ok := intParam(c, "movieId")
	if !ok {
		return
	}
	rating, found := lib.Rating(movieID)
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No rating for this movie"})
		return
	}
	c.JSON(http.StatusOK, rating)
}

// PutRating handles PUT /api/v1/me/ratings/:movieId
func (h *LibraryHandler) PutRating(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	movieID, ok := intParam(c, "movieId")
	if !ok {
		return
	}
	var req models.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	rating, err := lib.AddRating(c.Request.Context(), movieID, req.Rating)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/models"
)

type RecommendationHandler struct {
	recs   core.RecommendationService
	logger *zap.Logger
}

func NewRecommendationHandler(recs core.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{recs: recs, logger: logger}
}

// Recommend handles GET /api/v1/me/recommendations
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	lib, ok := libraryFrom(c)
	if !ok {
		return
	}
	results, err := h.recs.Recommend(c.Request.Context(), lib.Identity().UserID, lib.Watchlist())
	switch {
	case errors.Is(err, core.ErrEmptyWatchlist):
		c.JSON(http.StatusOK, ListResponse{Status: StatusEmptyWatchlist, Message: err.Error(), Results: []models.MovieSummary{}})
	case errors.Is(err, core.ErrNoRecommendations):
		c.JSON(http.StatusOK, ListResponse{Status: StatusNoRecommendations, Message: err.Error(), Results: []models.MovieSummary{}})
	case err != nil:
		mapErrorToStatus(c, h.logger, err)
	default:
		c.JSON(http.StatusOK, ListResponse{Status: StatusOK, Results: results})
	}
}

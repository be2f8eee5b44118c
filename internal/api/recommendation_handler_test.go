package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/models"
)

func recommendationRouter(recs *mockRecs, lib UserLibrary) *gin.Engine {
	h := NewRecommendationHandler(recs, zap.NewNop())
	r := gin.New()
	r.GET("/me/recommendations", withLibrary(lib), h.Recommend)
	return r
}

func TestRecommendStates(t *testing.T) {
	tests := []struct {
		name       string
		results    []models.MovieSummary
		err        error
		wantCode   int
		wantStatus string
	}{
		{name: "results", results: []models.MovieSummary{{ID: 2, Title: "Y"}}, wantCode: http.StatusOK, wantStatus: StatusOK},
		{name: "empty watchlist", err: core.ErrEmptyWatchlist, wantCode: http.StatusOK, wantStatus: StatusEmptyWatchlist},
		{name: "nothing found", err: core.ErrNoRecommendations, wantCode: http.StatusOK, wantStatus: StatusNoRecommendations},
		{name: "superseded", err: core.ErrSuperseded, wantCode: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := newFakeLibrary()
			recs := &mockRecs{}
			recs.On("Recommend", mock.Anything, "uid-1", mock.Anything).Return(tt.results, tt.err)

			w := doRequest(recommendationRouter(recs, lib), http.MethodGet, "/me/recommendations", "")
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantStatus != "" {
				assert.Equal(t, tt.wantStatus, decode[ListResponse](w).Status)
			}
		})
	}
}

func TestEmptyWatchlistMessage(t *testing.T) {
	recs := &mockRecs{}
	recs.On("Recommend", mock.Anything, "uid-1", mock.Anything).Return(nil, core.ErrEmptyWatchlist)

	w := doRequest(recommendationRouter(recs, newFakeLibrary()), http.MethodGet, "/me/recommendations", "")
	assert.Equal(t, "add movies to your watchlist to get recommendations", decode[ListResponse](w).Message)
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/db"
	"cinedex-backend-go/internal/models"
)

// CatalogHandler serves the public movie and people endpoints.
type CatalogHandler struct {
	catalog core.CatalogService
	reviews db.ReviewRepository
	logger  *zap.Logger
}

func NewCatalogHandler(catalog core.CatalogService, reviews db.ReviewRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, reviews: reviews, logger: logger}
}

// multiQuery collects a repeated query parameter, also splitting comma lists.
func multiQuery(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func moviePageResponse(page *models.MoviePage) ListResponse {
	status := StatusOK
	if len(page.Results) == 0 {
		status = StatusNoResults
	}
	return ListResponse{Status: status, Page: page.Page, Results: page.Results}
}

// Home handles GET /api/v1/home
func (h *CatalogHandler) Home(c *gin.Context) {
	feed, err := h.catalog.HomeFeed(c.Request.Context())
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// ListMovies handles GET /api/v1/movies?search=&genre=&year=&rating=&page=
func (h *CatalogHandler) ListMovies(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	q := core.MovieQuery{
		Search: c.Query("search"),
		Genres: multiQuery(c, "genre"),
		Years:  multiQuery(c, "year"),
		Page:   page,
	}
	for _, raw := range multiQuery(c, "rating") {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: "rating must be a number"})
			return
		}
		q.Ratings = append(q.Ratings, r)
	}

	result, err := h.catalog.ListMovies(c.Request.Context(), q)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, moviePageResponse(result))
}

// Filters handles GET /api/v1/movies/filters
func (h *CatalogHandler) Filters(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.FilterOptions())
}

func (h *CatalogHandler) Trending(c *gin.Context) {
	result, err := h.catalog.Trending(c.Request.Context())
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, moviePageResponse(result))
}

func (h *CatalogHandler) TopRated(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	result, err := h.catalog.TopRated(c.Request.Context(), page)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, moviePageResponse(result))
}

func (h *CatalogHandler) Popular(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	result, err := h.catalog.Popular(c.Request.Context(), page)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, moviePageResponse(result))
}

// MovieDetail handles GET /api/v1/movies/:movieId
func (h *CatalogHandler) MovieDetail(c *gin.Context) {
	movieID, ok := intParam(c, "movieId")
	if !ok {
		return
	}
	detail, err := h.catalog.MovieDetail(c.Request.Context(), movieID)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// MovieImages handles GET /api/v1/movies/:movieId/images
func (h *CatalogHandler) MovieImages(c *gin.Context) {
	movieID, ok := intParam(c, "movieId")
	if !ok {
		return
	}
	urls, err := h.catalog.MovieImages(c.Request.Context(), movieID)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movieId": movieID, "images": urls})
}

// MovieReviews handles GET /api/v1/movies/:movieId/reviews
func (h *CatalogHandler) MovieReviews(c *gin.Context) {
	movieID, ok := intParam(c, "movieId")
	if !ok {
		return
	}
	reviews, err := h.reviews.ListByMovie(c.Request.Context(), movieID)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	status := StatusOK
	if len(reviews) == 0 {
		status = StatusNoResults
	}
	c.JSON(http.StatusOK, ListResponse{Status: status, Results: reviews})
}

// SearchMovies handles GET /api/v1/search/movies?q=
func (h *CatalogHandler) SearchMovies(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	result, err := h.catalog.SearchMovies(c.Request.Context(), c.Query("q"), page)
	if errors.Is(err, core.ErrNoResults) {
		c.JSON(http.StatusOK, ListResponse{Status: StatusNoResults, Page: page, Results: []models.MovieSummary{}})
		return
	}
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, moviePageResponse(result))
}

// SearchPeople handles GET /api/v1/search/people?q=
func (h *CatalogHandler) SearchPeople(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	result, err := h.catalog.SearchPeople(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	status := StatusOK
	if len(result.Results) == 0 {
		status = StatusNoResults
	}
	c.JSON(http.StatusOK, ListResponse{Status: status, Page: result.Page, Results: result.Results})
}

func (h *CatalogHandler) PopularPeople(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	result, err := h.catalog.PopularPeople(c.Request.Context(), page)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Status: StatusOK, Page: result.Page, Results: result.Results})
}

// PersonDetail handles GET /api/v1/people/:personId
func (h *CatalogHandler) PersonDetail(c *gin.Context) {
	personID, ok := intParam(c, "personId")
	if !ok {
		return
	}
	person, err := h.catalog.PersonDetail(c.Request.Context(), personID)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"cinedex-backend-go/pkg/cache"
)

// Client talks to the metadata API. It is safe for concurrent use.
type Client struct {
	config     *Config
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      cache.Cache
	logger     *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithCache enables response caching for GET requests.
func WithCache(c cache.Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) { cl.httpClient = hc }
}

func NewClient(config *Config, logger *zap.Logger, opts ...Option) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.Named("tmdb"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cacheKey is built from the caller's params, before the api key is attached.
func cacheKey(endpoint string, params url.Values) string {
	return "tmdb:" + endpoint + "?" + params.Encode()
}

// cached returns the stored response body for key, if any.
func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, err := c.cache.Get(ctx, key)
	if err != nil || body == "" {
		return nil, false
	}
	return []byte(body), true
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	key := cacheKey(endpoint, params)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: err}
	}

	safeQuery := params.Encode()
	params.Set("api_key", c.config.APIKey)
	fullURL := fmt.Sprintf("%s%s?%s", c.config.baseURL(), endpoint, params.Encode())
	c.logger.Debug("TMDb API request", zap.String("endpoint", endpoint), zap.String("query", safeQuery))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Message = eb.StatusMessage
		}
		c.logger.Warn("TMDb API error", zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode), zap.String("message", apiErr.Message))
		return nil, apiErr
	}

	if c.cache != nil && c.config.CacheTTL > 0 {
		if err := c.cache.Set(ctx, key, string(body), c.config.CacheTTL); err != nil {
			c.logger.Debug("TMDb cache write skipped", zap.Error(err))
		}
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	key := cacheKey(endpoint, params)
	if body, ok := c.cached(ctx, key); ok {
		if err := json.Unmarshal(body, out); err == nil {
			c.logger.Debug("TMDb cache hit", zap.String("endpoint", endpoint))
			return nil
		}
		c.logger.Warn("Evicting unreadable TMDb cache entry", zap.String("endpoint", endpoint))
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.Debug("TMDb cache evict failed", zap.Error(err))
		}
	}

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", endpoint, err)
	}
	return nil
}

func pageParams(page int) url.Values {
	params := url.Values{}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return params
}

func (c *Client) moviePage(ctx context.Context, endpoint string, params url.Values) (*MoviePage, error) {
	var result MoviePage
	if err := c.getJSON(ctx, endpoint, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Trending returns this week's trending movies.
func (c *Client) Trending(ctx context.Context) (*MoviePage, error) {
	return c.moviePage(ctx, "/trending/movie/week", nil)
}

func (c *Client) TopRated(ctx context.Context, page int) (*MoviePage, error) {
	return c.moviePage(ctx, "/movie/top_rated", pageParams(page))
}

func (c *Client) Popular(ctx context.Context, page int) (*MoviePage, error) {
	return c.moviePage(ctx, "/movie/popular", pageParams(page))
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MoviePage, error) {
	params := pageParams(page)
	params.Set("query", query)
	params.Set("include_adult", "false")
	return c.moviePage(ctx, "/search/movie", params)
}

// Discover runs a filtered discovery query; params come from the query builder.
func (c *Client) Discover(ctx context.Context, params url.Values) (*MoviePage, error) {
	cp := url.Values{}
	for k, v := range params {
		cp[k] = append([]string(nil), v...)
	}
	return c.moviePage(ctx, "/discover/movie", cp)
}

func (c *Client) MovieRecommendations(ctx context.Context, movieID, page int) (*MoviePage, error) {
	return c.moviePage(ctx, fmt.Sprintf("/movie/%d/recommendations", movieID), pageParams(page))
}

// MovieDetails fetches a movie with its credits and videos in one call.
func (c *Client) MovieDetails(ctx context.Context, movieID int) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,videos")

	var details MovieDetails
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", movieID), params, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// MovieImages fetches backdrops and posters. languages is passed as
// include_image_language when non-empty, e.g. "en,null".
func (c *Client) MovieImages(ctx context.Context, movieID int, languages string) (*ImageSet, error) {
	params := url.Values{}
	if languages != "" {
		params.Set("include_image_language", languages)
	}

	var images ImageSet
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/images", movieID), params, &images); err != nil {
		return nil, err
	}
	return &images, nil
}

func (c *Client) SearchPeople(ctx context.Context, query string, page int) (*PersonPage, error) {
	params := pageParams(page)
	params.Set("query", query)
	params.Set("include_adult", "false")

	var result PersonPage
	if err := c.getJSON(ctx, "/search/person", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) PopularPeople(ctx context.Context, page int) (*PersonPage, error) {
	var result PersonPage
	if err := c.getJSON(ctx, "/person/popular", pageParams(page), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) PersonDetails(ctx context.Context, personID int) (*Person, error) {
	var person Person
	if err := c.getJSON(ctx, fmt.Sprintf("/person/%d", personID), nil, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func (c *Client) PersonMovieCredits(ctx context.Context, personID int) (*PersonCredits, error) {
	var credits PersonCredits
	if err := c.getJSON(ctx, fmt.Sprintf("/person/%d/movie_credits", personID), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var result GenreListResponse
	if err := c.getJSON(ctx, "/genre/movie/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

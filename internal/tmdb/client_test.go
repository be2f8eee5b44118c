package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{APIKey: "secret-key", BaseURL: srv.URL, CacheTTL: time.Minute}, zap.NewNop(), opts...)
}

func TestSearchMoviesSendsKeyAndQuery(t *testing.T) {
	var got url.Values
	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":27205,"title":"Inception","vote_average":8.4,"poster_path":"/p.jpg","genre_ids":[28,878]}]}`))
	})

	page, err := client.SearchMovies(context.Background(), "inception", 1)
	require.NoError(t, err)

	assert.Equal(t, "/search/movie", path)
	assert.Equal(t, "secret-key", got.Get("api_key"))
	assert.Equal(t, "inception", got.Get("query"))
	assert.Equal(t, "false", got.Get("include_adult"))
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Inception", page.Results[0].Title)
	require.NotNil(t, page.Results[0].VoteAverage)
	assert.InDelta(t, 8.4, page.Results[0].Score(), 0.0001)
}

func TestMissingScoreDecodesAsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":1,"title":"A"},{"id":2,"title":"B","vote_average":null}]}`))
	})

	page, err := client.Popular(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Nil(t, page.Results[0].VoteAverage)
	assert.Nil(t, page.Results[1].VoteAverage)
	assert.Zero(t, page.Results[1].Score())
}

func TestMovieDetailsAppendsCreditsAndVideos(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550", r.URL.Path)
		assert.Equal(t, "credits,videos", r.URL.Query().Get("append_to_response"))
		_, _ = w.Write([]byte(`{"id":550,"title":"Fight Club","runtime":139,"credits":{"cast":[{"id":819,"name":"Edward Norton"}]},"videos":{"results":[{"key":"abc","site":"YouTube","type":"Trailer"}]}}`))
	})

	details, err := client.MovieDetails(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, 139, details.Runtime)
	require.Len(t, details.Credits.Cast, 1)
	require.Len(t, details.Videos.Results, 1)
	assert.Equal(t, "abc", details.Videos.Results[0].Key)
}

func TestErrorStatusesAreClassified(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusTooManyRequests, KindRateLimit},
		{http.StatusUnauthorized, KindAuth},
		{http.StatusNotFound, KindNotFound},
		{http.StatusInternalServerError, KindAPI},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"status_code":7,"status_message":"nope"}`))
			})

			_, err := client.Trending(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
			assert.Equal(t, tc.kind, Classify(err))
		})
	}
}

func TestTransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewClient(&Config{APIKey: "k", BaseURL: srv.URL}, zap.NewNop())

	_, err := client.TopRated(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, KindNetwork, Classify(err))
	assert.Equal(t, "Network connection lost. Please check your internet connection.", UserMessage(Classify(err)))
}

func TestErrorLeavesNoApiKeyInMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Genres(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestCacheServesRepeatedRequests(t *testing.T) {
	var calls int32
	c := newMemCache()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"genres":[{"id":28,"name":"Action"}]}`))
	}, WithCache(c))

	for i := 0; i < 3; i++ {
		genres, err := client.Genres(context.Background())
		require.NoError(t, err)
		require.Len(t, genres, 1)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for key := range c.data {
		assert.NotContains(t, key, "secret-key")
	}
}

func TestDiscoverDoesNotMutateCallerParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2022", r.URL.Query().Get("primary_release_year"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	params := url.Values{"primary_release_year": {"2022"}}
	_, err := client.Discover(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, params.Get("api_key"))
}

func TestCancelledContextStopsRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.PersonDetails(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, KindNetwork, Classify(err))
}

func TestBuildImageURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", BuildImageURL(SizePosterW500, "/abc.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/b.jpg", BuildBackdropURL("/b.jpg"))
	assert.Empty(t, BuildImageURL(SizeBackdropW300, ""))
}

func TestUnreadableCacheEntryIsReplaced(t *testing.T) {
	var calls int32
	c := newMemCache()
	c.data[cacheKey("/genre/movie/list", url.Values{})] = "{not json"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"}]}`))
	}, WithCache(c))

	genres, err := client.Genres(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "Drama", genres[0].Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.JSONEq(t, `{"genres":[{"id":18,"name":"Drama"}]}`, c.data[cacheKey("/genre/movie/list", url.Values{})])
}

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/identity"
	"cinedex-backend-go/internal/middleware"
	"cinedex-backend-go/internal/models"
	"cinedex-backend-go/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) moviePage(args mock.Arguments) (*models.MoviePage, error) {
	p, _ := args.Get(0).(*models.MoviePage)
	return p, args.Error(1)
}

func (m *mockCatalog) ListMovies(ctx context.Context, q core.MovieQuery) (*models.MoviePage, error) {
	return m.moviePage(m.Called(ctx, q))
}

func (m *mockCatalog) SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	return m.moviePage(m.Called(ctx, query, page))
}

func (m *mockCatalog) SearchPeople(ctx context.Context, query string, page int) (*models.PeoplePage, error) {
	args := m.Called(ctx, query, page)
	p, _ := args.Get(0).(*models.PeoplePage)
	return p, args.Error(1)
}

func (m *mockCatalog) PopularPeople(ctx context.Context, page int) (*models.PeoplePage, error) {
	args := m.Called(ctx, page)
	p, _ := args.Get(0).(*models.PeoplePage)
	return p, args.Error(1)
}

func (m *mockCatalog) Trending(ctx context.Context) (*models.MoviePage, error) {
	return m.moviePage(m.Called(ctx))
}

func (m *mockCatalog) TopRated(ctx context.Context, page int) (*models.MoviePage, error) {
	return m.moviePage(m.Called(ctx, page))
}

func (m *mockCatalog) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	return m.moviePage(m.Called(ctx, page))
}

func (m *mockCatalog) MovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	args := m.Called(ctx, movieID)
	d, _ := args.Get(0).(*models.MovieDetail)
	return d, args.Error(1)
}

func (m *mockCatalog) MovieImages(ctx context.Context, movieID int) ([]string, error) {
	args := m.Called(ctx, movieID)
	urls, _ := args.Get(0).([]string)
	return urls, args.Error(1)
}

func (m *mockCatalog) PersonDetail(ctx context.Context, personID int) (*models.PersonDetail, error) {
	args := m.Called(ctx, personID)
	p, _ := args.Get(0).(*models.PersonDetail)
	return p, args.Error(1)
}

func (m *mockCatalog) HomeFeed(ctx context.Context) (*models.HomeFeed, error) {
	args := m.Called(ctx)
	f, _ := args.Get(0).(*models.HomeFeed)
	return f, args.Error(1)
}

func (m *mockCatalog) FilterOptions() models.FilterOptions {
	return m.Called().Get(0).(models.FilterOptions)
}

func (m *mockCatalog) SyncGenres(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockRecs struct{ mock.Mock }

func (m *mockRecs) Recommend(ctx context.Context, userID string, watchlist []models.WatchlistEntry) ([]models.MovieSummary, error) {
	args := m.Called(ctx, userID, watchlist)
	r, _ := args.Get(0).([]models.MovieSummary)
	return r, args.Error(1)
}

func (m *mockRecs) Invalidate(userID string) { m.Called(userID) }

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) account(args mock.Arguments) (*models.Account, error) {
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *mockAccounts) SignUp(ctx context.Context, req models.SignUpRequest) (*models.Account, error) {
	return m.account(m.Called(ctx, req))
}

func (m *mockAccounts) SignIn(ctx context.Context, req models.SignInRequest) (*models.Account, error) {
	return m.account(m.Called(ctx, req))
}

func (m *mockAccounts) SignInFederated(ctx context.Context, req models.FederatedSignInRequest) (*models.Account, error) {
	return m.account(m.Called(ctx, req))
}

func (m *mockAccounts) SignOut(ctx context.Context, userID, email string) error {
	return m.Called(ctx, userID, email).Error(0)
}

type mockReviews struct{ mock.Mock }

func (m *mockReviews) Put(ctx context.Context, review models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviews) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).([]models.Review)
	return r, args.Error(1)
}

func (m *mockReviews) ListByMovie(ctx context.Context, movieID int) ([]models.Review, error) {
	args := m.Called(ctx, movieID)
	r, _ := args.Get(0).([]models.Review)
	return r, args.Error(1)
}

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, token string) (*identity.Claims, error) {
	if token != "valid" {
		return nil, identity.ErrInvalidToken
	}
	return &identity.Claims{UserID: "uid-1", Email: "alice@example.com"}, nil
}

type stubSessions struct{}

func (stubSessions) Ensure(context.Context, session.Identity) (*session.Store, error) {
	return nil, core.ErrSignInRequired
}

// fakeLibrary is an in-memory UserLibrary.
type fakeLibrary struct {
	id        session.Identity
	profile   models.UserProfile
	watchlist []models.WatchlistEntry
	reviews   map[int]models.Review
	ratings   map[int]models.Rating
	err       error
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		id:      session.Identity{UserID: "uid-1", Email: "alice@example.com"},
		profile: models.DefaultProfile(),
		reviews: map[int]models.Review{},
		ratings: map[int]models.Rating{},
	}
}

func (f *fakeLibrary) Identity() session.Identity { return f.id }
func (f *fakeLibrary) Profile() models.UserProfile { return f.profile }
func (f *fakeLibrary) Watchlist() []models.WatchlistEntry {
	return append([]models.WatchlistEntry(nil), f.watchlist...)
}

func (f *fakeLibrary) UpdateProfile(_ context.Context, patch models.ProfilePatch) (models.UserProfile, error) {
	if f.err != nil {
		return models.UserProfile{}, f.err
	}
	f.profile = f.profile.Apply(patch)
	return f.profile, nil
}

func (f *fakeLibrary) IsInWatchlist(movieID int) bool {
	for _, e := range f.watchlist {
		if e.ID == movieID {
			return true
		}
	}
	return false
}

func (f *fakeLibrary) AddToWatchlist(_ context.Context, entry models.WatchlistEntry) error {
	if f.err != nil {
		return f.err
	}
	f.watchlist = append(f.watchlist, entry)
	return nil
}

func (f *fakeLibrary) RemoveFromWatchlist(_ context.Context, movieID int) error {
	if f.err != nil {
		return f.err
	}
	kept := f.watchlist[:0]
	for _, e := range f.watchlist {
		if e.ID != movieID {
			kept = append(kept, e)
		}
	}
	f.watchlist = kept
	return nil
}

func (f *fakeLibrary) Reviews() []models.Review {
	out := make([]models.Review, 0, len(f.reviews))
	for _, r := range f.reviews {
		out = append(out, r)
	}
	return out
}

func (f *fakeLibrary) UserReviewForMovie(movieID int) (models.Review, bool) {
	r, ok := f.reviews[movieID]
	return r, ok
}

func (f *fakeLibrary) AddReview(_ context.Context, movieID, rating int, text string) (models.Review, error) {
	if f.err != nil {
		return models.Review{}, f.err
	}
	r := models.Review{MovieID: movieID, UserID: f.id.UserID, UserEmail: f.id.Email, Rating: rating, ReviewText: text}
	f.reviews[movieID] = r
	return r, nil
}

func (f *fakeLibrary) Ratings() map[int]models.Rating { return f.ratings }

func (f *fakeLibrary) Rating(movieID int) (models.Rating, bool) {
	r, ok := f.ratings[movieID]
	return r, ok
}

func (f *fakeLibrary) AddRating(_ context.Context, movieID, value int) (models.Rating, error) {
	if f.err != nil {
		return models.Rating{}, f.err
	}
	r := models.Rating{MovieID: movieID, Rating: value}
	f.ratings[movieID] = r
	return r, nil
}

// withLibrary stands in for the auth and session middleware.
func withLibrary(lib UserLibrary) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "uid-1")
		c.Set(middleware.ContextSession, lib)
		c.Next()
	}
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	return v
}

func doRequestWithToken(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

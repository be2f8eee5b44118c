package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cinedex-backend-go/internal/models"
)

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*models.UserProfile)
	return p, args.Error(1)
}

func (m *mockProfiles) Merge(ctx context.Context, userID string, fields map[string]interface{}) error {
	return m.Called(ctx, userID, fields).Error(0)
}

type mockWatchlists struct{ mock.Mock }

func (m *mockWatchlists) List(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	args := m.Called(ctx, userID)
	w, _ := args.Get(0).([]models.WatchlistEntry)
	return w, args.Error(1)
}

func (m *mockWatchlists) Put(ctx context.Context, userID string, entry models.WatchlistEntry) error {
	return m.Called(ctx, userID, entry).Error(0)
}

func (m *mockWatchlists) Delete(ctx context.Context, userID string, movieID int) error {
	return m.Called(ctx, userID, movieID).Error(0)
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

type mockRatings struct{ mock.Mock }

func (m *mockRatings) Get(ctx context.Context, userID string) (map[int]models.Rating, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).(map[int]models.Rating)
	return r, args.Error(1)
}

func (m *mockRatings) Put(ctx context.Context, userID string, rating models.Rating) error {
	return m.Called(ctx, userID, rating).Error(0)
}

type mockInvalidator struct{ mock.Mock }

func (m *mockInvalidator) Invalidate(userID string) {
	m.Called(userID)
}

type fixture struct {
	profiles   *mockProfiles
	watchlists *mockWatchlists
	reviews    *mockReviews
	ratings    *mockRatings
	recs       *mockInvalidator
}

func newFixture() *fixture {
	f := &fixture{
		profiles:   &mockProfiles{},
		watchlists: &mockWatchlists{},
		reviews:    &mockReviews{},
		ratings:    &mockRatings{},
		recs:       &mockInvalidator{},
	}
	f.recs.On("Invalidate", mock.Anything).Maybe()
	return f
}

func (f *fixture) repos() Repositories {
	return Repositories{Profiles: f.profiles, Watchlists: f.watchlists, Reviews: f.reviews, Ratings: f.ratings}
}

// emptyRemote makes every load find nothing for userID.
func (f *fixture) emptyRemote(userID string) {
	f.profiles.On("Get", mock.Anything, userID).Return(nil, notFound()).Maybe()
	f.watchlists.On("List", mock.Anything, userID).Return([]models.WatchlistEntry{}, nil).Maybe()
	f.reviews.On("ListByUser", mock.Anything, userID).Return([]models.Review{}, nil).Maybe()
	f.ratings.On("Get", mock.Anything, userID).Return(nil, notFound()).Maybe()
}

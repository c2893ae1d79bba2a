package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"verified-reviews/internal/domain"
)

type Store struct {
	mock.Mock
}

func NewStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *Store {
	m := &Store{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Store) UpsertRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	args := m.Called(ctx, rest)
	return args.Error(0)
}

func (m *Store) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	args := m.Called(ctx, id)
	var rest *domain.Restaurant
	if v := args.Get(0); v != nil {
		rest = v.(*domain.Restaurant)
	}
	return rest, args.Error(1)
}

func (m *Store) AnyRestaurant(ctx context.Context) (*domain.Restaurant, error) {
	args := m.Called(ctx)
	var rest *domain.Restaurant
	if v := args.Get(0); v != nil {
		rest = v.(*domain.Restaurant)
	}
	return rest, args.Error(1)
}

func (m *Store) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	var out []domain.Restaurant
	if v := args.Get(0); v != nil {
		out = v.([]domain.Restaurant)
	}
	return out, args.Error(1)
}

func (m *Store) InsertReview(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *Store) ListReviews(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	args := m.Called(ctx, restaurantID)
	var out []domain.Review
	if v := args.Get(0); v != nil {
		out = v.([]domain.Review)
	}
	return out, args.Error(1)
}

func (m *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if v := args.Get(0); v != nil {
		user = v.(*domain.User)
	}
	return user, args.Error(1)
}

func (m *Store) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *Store) UpdateRestaurantRating(ctx context.Context, restaurantID string) error {
	args := m.Called(ctx, restaurantID)
	return args.Error(0)
}

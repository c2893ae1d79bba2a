package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"verified-reviews/internal/domain"
	"verified-reviews/internal/service"
)

type ReviewServiceInterface struct {
	mock.Mock
}

func NewReviewServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewServiceInterface {
	m := &ReviewServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReviewServiceInterface) Submit(ctx context.Context, req service.SubmitRequest) (*domain.Review, error) {
	args := m.Called(ctx, req)
	var review *domain.Review
	if v := args.Get(0); v != nil {
		review = v.(*domain.Review)
	}
	return review, args.Error(1)
}

func (m *ReviewServiceInterface) GenerateSignedMessage(restaurantID string) (string, error) {
	args := m.Called(restaurantID)
	return args.String(0), args.Error(1)
}

func (m *ReviewServiceInterface) ListReviews(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	args := m.Called(ctx, restaurantID)
	var out []domain.Review
	if v := args.Get(0); v != nil {
		out = v.([]domain.Review)
	}
	return out, args.Error(1)
}

type RestaurantServiceInterface struct {
	mock.Mock
}

func NewRestaurantServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *RestaurantServiceInterface {
	m := &RestaurantServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RestaurantServiceInterface) Register(ctx context.Context, id, publicKey string) (*domain.Restaurant, error) {
	args := m.Called(ctx, id, publicKey)
	var rest *domain.Restaurant
	if v := args.Get(0); v != nil {
		rest = v.(*domain.Restaurant)
	}
	return rest, args.Error(1)
}

func (m *RestaurantServiceInterface) List(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	var out []domain.Restaurant
	if v := args.Get(0); v != nil {
		out = v.([]domain.Restaurant)
	}
	return out, args.Error(1)
}

func (m *RestaurantServiceInterface) QRCode(restaurantID string) ([]byte, error) {
	args := m.Called(restaurantID)
	var out []byte
	if v := args.Get(0); v != nil {
		out = v.([]byte)
	}
	return out, args.Error(1)
}

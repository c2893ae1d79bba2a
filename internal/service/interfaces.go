package service

import (
	"context"

	"verified-reviews/internal/domain"
)

// Store is the backend-agnostic persistence surface. Lookups return
// (nil, nil) when the entity does not exist; errors are reserved for
// backend failures.
type Store interface {
	UpsertRestaurant(ctx context.Context, rest *domain.Restaurant) error
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	AnyRestaurant(ctx context.Context) (*domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	InsertReview(ctx context.Context, review *domain.Review) error
	ListReviews(ctx context.Context, restaurantID string) ([]domain.Review, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateRestaurantRating(ctx context.Context, restaurantID string) error
}

// AttestationVerifier is the pluggable proof-checking strategy.
type AttestationVerifier interface {
	Verify(ctx context.Context, signedMessage, publicKey string) domain.VerificationResult
}

// ReplayGuard tracks consumed visit ids so an attestation cannot back two
// reviews.
type ReplayGuard interface {
	MarkerKey(restaurantID, visitID string) string
	Exists(ctx context.Context, key string) (bool, error)
	SetMarker(ctx context.Context, key string) error
}

// ReviewPublisher emits an event after a verified review is stored.
type ReviewPublisher interface {
	PublishReview(ctx context.Context, evt domain.ReviewEvent) error
}

type ReviewServiceInterface interface {
	Submit(ctx context.Context, req SubmitRequest) (*domain.Review, error)
	GenerateSignedMessage(restaurantID string) (string, error)
	ListReviews(ctx context.Context, restaurantID string) ([]domain.Review, error)
}

type RestaurantServiceInterface interface {
	Register(ctx context.Context, id, publicKey string) (*domain.Restaurant, error)
	List(ctx context.Context) ([]domain.Restaurant, error)
	QRCode(restaurantID string) ([]byte, error)
}

var _ ReviewServiceInterface = (*ReviewService)(nil)
var _ RestaurantServiceInterface = (*RestaurantService)(nil)

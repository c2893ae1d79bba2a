package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"verified-reviews/internal/domain"
)

var ErrMissingRestaurantFields = errors.New("Missing required fields: id, publicKey")

// QRGenerator renders a shareable review link for a restaurant.
type QRGenerator interface {
	Generate(restaurantID string) ([]byte, error)
}

type RestaurantService struct {
	store     Store
	qrEncoder QRGenerator
}

func NewRestaurantService(store Store, qr QRGenerator) *RestaurantService {
	return &RestaurantService{store: store, qrEncoder: qr}
}

// Register stores a restaurant's signing identity. The external id only
// seeds the display name; the stored record gets a fresh UUID, matching how
// restaurants are provisioned from the setup flow.
func (s *RestaurantService) Register(ctx context.Context, id, publicKey string) (*domain.Restaurant, error) {
	if id == "" || publicKey == "" {
		return nil, ErrMissingRestaurantFields
	}

	user, err := s.resolveOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	now := time.Now().UTC()
	rest := &domain.Restaurant{
		ID:        uuid.NewString(),
		Name:      "Restaurant " + id,
		Address:   "123 Main Street",
		PublicKey: publicKey,
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.UpsertRestaurant(ctx, rest); err != nil {
		return nil, fmt.Errorf("failed to store restaurant: %w", err)
	}
	return rest, nil
}

func (s *RestaurantService) List(ctx context.Context) ([]domain.Restaurant, error) {
	return s.store.ListRestaurants(ctx)
}

func (s *RestaurantService) QRCode(restaurantID string) ([]byte, error) {
	if s.qrEncoder == nil {
		return nil, errors.New("qr generation not configured")
	}
	return s.qrEncoder.Generate(restaurantID)
}

func (s *RestaurantService) resolveOwner(ctx context.Context) (*domain.User, error) {
	user, err := s.store.GetUserByEmail(ctx, demoUserEmail)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	now := time.Now().UTC()
	user = &domain.User{
		ID:        uuid.NewString(),
		FirstName: "Demo",
		LastName:  "User",
		Email:     demoUserEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

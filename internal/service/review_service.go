package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"verified-reviews/internal/attestation"
	"verified-reviews/internal/domain"
)

const demoUserEmail = "demo@example.com"

var (
	ErrMissingFields      = errors.New("Missing required fields: restaurantId, clientName, reviewText, signedMessage")
	ErrMissingRestaurant  = errors.New("Missing required field: restaurantId")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrAttestationUsed    = errors.New("Attestation already used")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)

// AttestationError carries the validator's rejection reason.
type AttestationError struct {
	Reason string
}

func (e *AttestationError) Error() string {
	return "ZK proof validation failed: " + e.Reason
}

type SubmitRequest struct {
	RestaurantID  string `json:"restaurantId"`
	ClientName    string `json:"clientName"`
	ReviewText    string `json:"reviewText"`
	SignedMessage string `json:"signedMessage"`
}

type ReviewService struct {
	store        Store
	verifier     AttestationVerifier
	guard        ReplayGuard
	publisher    ReviewPublisher
	demoFallback bool
}

// NewReviewService wires the submission workflow. guard and publisher are
// optional; demoFallback substitutes an existing restaurant when the
// submitted id is unknown instead of rejecting.
func NewReviewService(store Store, verifier AttestationVerifier, guard ReplayGuard, publisher ReviewPublisher, demoFallback bool) *ReviewService {
	return &ReviewService{
		store:        store,
		verifier:     verifier,
		guard:        guard,
		publisher:    publisher,
		demoFallback: demoFallback,
	}
}

func (s *ReviewService) Submit(ctx context.Context, req SubmitRequest) (*domain.Review, error) {
	if req.RestaurantID == "" || req.ClientName == "" || req.ReviewText == "" || req.SignedMessage == "" {
		return nil, ErrMissingFields
	}

	rest, err := s.resolveRestaurant(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	result := s.verifier.Verify(ctx, req.SignedMessage, rest.PublicKey)
	if !result.Valid {
		return nil, &AttestationError{Reason: result.Reason}
	}

	var markerKey string
	if s.guard != nil {
		var att domain.Attestation
		_ = json.Unmarshal([]byte(req.SignedMessage), &att)
		markerKey = s.guard.MarkerKey(rest.ID, att.VisitID)
		used, err := s.guard.Exists(ctx, markerKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check attestation marker: %w", err)
		}
		if used {
			return nil, ErrAttestationUsed
		}
	}

	rating, err := ExtractRating(req.ReviewText)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveDemoUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reviewer: %w", err)
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:             uuid.NewString(),
		RestaurantID:   rest.ID,
		UserID:         user.ID,
		ClientName:     req.ClientName,
		Rating:         rating,
		ReviewText:     req.ReviewText,
		Verified:       true,
		VerificationID: result.VerificationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.InsertReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to store review: %w", err)
	}

	if s.guard != nil {
		_ = s.guard.SetMarker(ctx, markerKey)
	}

	if s.publisher != nil {
		_ = s.publisher.PublishReview(ctx, domain.ReviewEvent{
			Type:         "review_submitted",
			RestaurantID: rest.ID,
			ReviewID:     review.ID,
			Rating:       review.Rating,
			Timestamp:    now,
		})
	}

	return review, nil
}

func (s *ReviewService) GenerateSignedMessage(restaurantID string) (string, error) {
	if restaurantID == "" {
		return "", ErrMissingRestaurant
	}
	return attestation.IssueSigned(restaurantID)
}

func (s *ReviewService) ListReviews(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	return s.store.ListReviews(ctx, restaurantID)
}

func (s *ReviewService) resolveRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	rest, err := s.store.GetRestaurant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up restaurant: %w", err)
	}
	if rest != nil {
		return rest, nil
	}

	if !s.demoFallback {
		return nil, ErrRestaurantNotFound
	}

	rest, err = s.store.AnyRestaurant(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up restaurant: %w", err)
	}
	if rest != nil {
		return rest, nil
	}

	user, err := s.resolveDemoUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reviewer: %w", err)
	}

	now := time.Now().UTC()
	demo := &domain.Restaurant{
		ID:        uuid.NewString(),
		Name:      "Demo Restaurant",
		Address:   "123 Main Street",
		PublicKey: "demo-key",
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.UpsertRestaurant(ctx, demo); err != nil {
		return nil, fmt.Errorf("failed to create fallback restaurant: %w", err)
	}
	return demo, nil
}

func (s *ReviewService) resolveDemoUser(ctx context.Context) (*domain.User, error) {
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

var ratingPattern = regexp.MustCompile(`Rating: (\d+)/5`)

// ExtractRating pulls the "Rating: N/5" marker out of the review text.
// Missing marker defaults to 5; an out-of-range value is a validation error.
func ExtractRating(text string) (int, error) {
	m := ratingPattern.FindStringSubmatch(text)
	if m == nil {
		return 5, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > 5 {
		return 0, ErrInvalidRating
	}
	return n, nil
}

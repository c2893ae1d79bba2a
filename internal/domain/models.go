package domain

import "time"

type Restaurant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	PublicKey   string    `json:"public_key"`
	AvgRating   float64   `json:"avg_rating"`
	ReviewCount int       `json:"review_count"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Review struct {
	ID             string    `json:"id"`
	RestaurantID   string    `json:"restaurant_id"`
	UserID         string    `json:"user_id"`
	ClientName     string    `json:"client_name"`
	Rating         int       `json:"rating"`
	ReviewText     string    `json:"review_text"`
	Verified       bool      `json:"is_verified"`
	VerificationID string    `json:"verification_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attestation is the visit proof attached to a verified review submission.
// The wire format matches what restaurants hand out at visit time.
type Attestation struct {
	VisitID   string `json:"visit_id"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

// VerificationResult is the outcome of checking an attestation.
// Exactly one of VerificationID (valid) or Reason (invalid) is set.
type VerificationResult struct {
	Valid          bool   `json:"valid"`
	VerificationID string `json:"verification_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

type ReviewEvent struct {
	Type         string    `json:"type"`
	RestaurantID string    `json:"restaurant_id"`
	ReviewID     string    `json:"review_id"`
	Rating       int       `json:"rating"`
	Timestamp    time.Time `json:"timestamp"`
}

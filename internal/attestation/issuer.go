package attestation

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"verified-reviews/internal/domain"
)

// Issue produces a demo attestation for a restaurant. The signature is a
// placeholder bound to the restaurant and visit; a production deployment
// replaces it with a real signature minted at visit time.
func Issue(restaurantID string) (domain.Attestation, error) {
	if restaurantID == "" {
		return domain.Attestation{}, fmt.Errorf("restaurant id is required")
	}

	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return domain.Attestation{}, fmt.Errorf("failed to generate visit id: %w", err)
	}
	visitID := hex.EncodeToString(buf)

	return domain.Attestation{
		VisitID:   visitID,
		Timestamp: time.Now().Unix(),
		Signature: fmt.Sprintf("demo-signature-for-%s-%s", restaurantID, visitID),
	}, nil
}

// IssueSigned serializes a freshly issued attestation to its wire form.
func IssueSigned(restaurantID string) (string, error) {
	att, err := Issue(restaurantID)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(att)
	if err != nil {
		return "", fmt.Errorf("failed to encode attestation: %w", err)
	}
	return string(payload), nil
}

package attestation

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"verified-reviews/internal/domain"
)

const (
	ReasonInvalidFormat    = "Invalid message format"
	ReasonVisitTooOld      = "Visit is too old (more than 30 days)"
	ReasonInvalidSignature = "Invalid signature"
	ReasonUnknownPublicKey = "Unknown restaurant public key"
)

// maxVisitAge is how long an attestation stays acceptable after issuance.
const maxVisitAge = 30 * 24 * time.Hour

// Verifier decides whether a serialized attestation is acceptable for a
// restaurant. Implementations never return an error; every outcome is a
// VerificationResult.
type Verifier interface {
	Verify(ctx context.Context, signedMessage, publicKey string) domain.VerificationResult
}

// DemoVerifier accepts any structurally complete attestation issued within
// the freshness window. It does not check the signature value, only its
// presence. Delay simulates the cost of a real proof-verification step.
type DemoVerifier struct {
	Delay time.Duration
}

func (v *DemoVerifier) Verify(ctx context.Context, signedMessage, publicKey string) domain.VerificationResult {
	if v.Delay > 0 {
		select {
		case <-time.After(v.Delay):
		case <-ctx.Done():
		}
	}

	att, ok := parse(signedMessage)
	if !ok {
		return domain.VerificationResult{Reason: ReasonInvalidFormat}
	}

	if stale(att.Timestamp) {
		return domain.VerificationResult{Reason: ReasonVisitTooOld}
	}

	return domain.VerificationResult{Valid: true, VerificationID: newVerificationID()}
}

// Ed25519Verifier checks a real ed25519 signature over "visitID|timestamp"
// against the restaurant's registered public key (hex-encoded). The freshness
// window matches the demo strategy.
type Ed25519Verifier struct{}

func (Ed25519Verifier) Verify(ctx context.Context, signedMessage, publicKey string) domain.VerificationResult {
	att, ok := parse(signedMessage)
	if !ok {
		return domain.VerificationResult{Reason: ReasonInvalidFormat}
	}

	pub, err := hex.DecodeString(publicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return domain.VerificationResult{Reason: ReasonUnknownPublicKey}
	}

	sig, err := base64.StdEncoding.DecodeString(att.Signature)
	if err != nil {
		return domain.VerificationResult{Reason: ReasonInvalidSignature}
	}

	if !ed25519.Verify(pub, signingPayload(att.VisitID, att.Timestamp), sig) {
		return domain.VerificationResult{Reason: ReasonInvalidSignature}
	}

	if stale(att.Timestamp) {
		return domain.VerificationResult{Reason: ReasonVisitTooOld}
	}

	return domain.VerificationResult{Valid: true, VerificationID: newVerificationID()}
}

// Sign produces the ed25519 signature the Ed25519Verifier expects. Used by
// restaurants that issue real attestations at visit time.
func Sign(priv ed25519.PrivateKey, visitID string, timestamp int64) string {
	sig := ed25519.Sign(priv, signingPayload(visitID, timestamp))
	return base64.StdEncoding.EncodeToString(sig)
}

func signingPayload(visitID string, timestamp int64) []byte {
	return []byte(fmt.Sprintf("%s|%d", visitID, timestamp))
}

func parse(signedMessage string) (domain.Attestation, bool) {
	var att domain.Attestation
	if err := json.Unmarshal([]byte(signedMessage), &att); err != nil {
		return domain.Attestation{}, false
	}
	if att.VisitID == "" || att.Timestamp == 0 || att.Signature == "" {
		return domain.Attestation{}, false
	}
	return att, true
}

func stale(timestamp int64) bool {
	return time.Now().Unix()-timestamp > int64(maxVisitAge.Seconds())
}

func newVerificationID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"verified-reviews/internal/domain"
)

type AttestationVerifier struct {
	mock.Mock
}

func NewAttestationVerifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *AttestationVerifier {
	m := &AttestationVerifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AttestationVerifier) Verify(ctx context.Context, signedMessage, publicKey string) domain.VerificationResult {
	args := m.Called(ctx, signedMessage, publicKey)
	return args.Get(0).(domain.VerificationResult)
}

type ReplayGuard struct {
	mock.Mock
}

func NewReplayGuard(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReplayGuard {
	m := &ReplayGuard{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReplayGuard) MarkerKey(restaurantID, visitID string) string {
	args := m.Called(restaurantID, visitID)
	return args.String(0)
}

func (m *ReplayGuard) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *ReplayGuard) SetMarker(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type ReviewPublisher struct {
	mock.Mock
}

func NewReviewPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewPublisher {
	m := &ReviewPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReviewPublisher) PublishReview(ctx context.Context, evt domain.ReviewEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// Package client is the review submission side of the verification flow:
// it collects reviewer input, attaches a visit attestation, performs local
// validation and talks to the Verification Service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"verified-reviews/internal/domain"
)

var (
	ErrMissingName        = errors.New("reviewer name is required")
	ErrMissingText        = errors.New("review text is required")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrMissingAttestation = errors.New("a visit attestation is required")
	ErrBadAttestation     = errors.New("attestation is not a valid visit proof")
)

// APIError is a structured failure returned by the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Submission holds the form state for one review. The attestation is
// one-shot: it is cleared after any submission attempt and must be
// re-supplied before retrying.
type Submission struct {
	RestaurantID  string
	ClientName    string
	Rating        int
	ReviewText    string
	signedMessage string
}

// AttachAttestation validates an uploaded attestation before accepting it.
func (s *Submission) AttachAttestation(raw string) error {
	var att domain.Attestation
	if err := json.Unmarshal([]byte(raw), &att); err != nil {
		return ErrBadAttestation
	}
	if att.VisitID == "" || att.Timestamp == 0 || att.Signature == "" {
		return ErrBadAttestation
	}
	s.signedMessage = raw
	return nil
}

func (s *Submission) HasAttestation() bool {
	return s.signedMessage != ""
}

// Validate runs the local checks before any network call.
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.ClientName) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(s.ReviewText) == "" {
		return ErrMissingText
	}
	if s.Rating < 1 || s.Rating > 5 {
		return ErrInvalidRating
	}
	if s.signedMessage == "" {
		return ErrMissingAttestation
	}
	return nil
}

// reviewBody embeds the rating marker the service parses out of the text.
func (s *Submission) reviewBody() string {
	if strings.Contains(s.ReviewText, "Rating: ") {
		return s.ReviewText
	}
	return fmt.Sprintf("Rating: %d/5 - %s", s.Rating, s.ReviewText)
}

// RequestDemoAttestation fetches a server-issued attestation and attaches it.
func (c *Client) RequestDemoAttestation(ctx context.Context, sub *Submission) error {
	var resp struct {
		Success       bool   `json:"success"`
		SignedMessage string `json:"signedMessage"`
		Error         string `json:"error"`
	}
	err := c.post(ctx, "/generate-signed-message",
		map[string]string{"restaurantId": sub.RestaurantID}, &resp)
	if err != nil {
		return err
	}
	return sub.AttachAttestation(resp.SignedMessage)
}

// SubmitReview sends the review. The attestation is consumed whether or not
// the server accepts it.
func (c *Client) SubmitReview(ctx context.Context, sub *Submission) (*domain.Review, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	payload := map[string]string{
		"restaurantId":  sub.RestaurantID,
		"clientName":    sub.ClientName,
		"reviewText":    sub.reviewBody(),
		"signedMessage": sub.signedMessage,
	}
	sub.signedMessage = ""

	var resp struct {
		Success bool           `json:"success"`
		Review  *domain.Review `json:"review"`
		Error   string         `json:"error"`
	}
	if err := c.post(ctx, "/submit-review", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Review, nil
}

func (c *Client) RegisterRestaurant(ctx context.Context, id, publicKey string) (*domain.Restaurant, error) {
	var resp struct {
		Success    bool               `json:"success"`
		Restaurant *domain.Restaurant `json:"restaurant"`
		Error      string             `json:"error"`
	}
	err := c.post(ctx, "/register-restaurant",
		map[string]string{"id": id, "publicKey": publicKey}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Restaurant, nil
}

func (c *Client) Reviews(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	var resp struct {
		Success bool            `json:"success"`
		Data    []domain.Review `json:"data"`
		Error   string          `json:"error"`
	}
	if err := c.get(ctx, "/reviews/"+restaurantID, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	var resp struct {
		Success bool                `json:"success"`
		Data    []domain.Restaurant `json:"data"`
		Error   string              `json:"error"`
	}
	if err := c.get(ctx, "/restaurants", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !envelope.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}
	return json.Unmarshal(raw, out)
}

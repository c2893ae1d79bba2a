package tests

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpapi "verified-reviews/internal/api/http"
	"verified-reviews/internal/domain"
	"verified-reviews/internal/mocks"
	"verified-reviews/internal/service"
)

func setupTestRouter(reviews *mocks.ReviewServiceInterface, restaurants *mocks.RestaurantServiceInterface) *mux.Router {
	handler := httpapi.NewHandler(reviews, restaurants, "local")
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestHandler_submitReview(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		prepareMocks func(reviews *mocks.ReviewServiceInterface)
		expectedCode int
		expectedBody string
	}{
		{
			name:    "success",
			payload: `{"restaurantId":"r1","clientName":"Alice","reviewText":"Rating: 4/5 - nice","signedMessage":"{}"}`,
			prepareMocks: func(reviews *mocks.ReviewServiceInterface) {
				reviews.On("Submit", mock.Anything, mock.Anything).
					Return(&domain.Review{ID: "rev1", Verified: true, VerificationID: "vid-1", Rating: 4}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"verification_id":"vid-1"`,
		},
		{
			name:         "invalid_json",
			payload:      `bad json`,
			prepareMocks: func(reviews *mocks.ReviewServiceInterface) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `"success":false`,
		},
		{
			name:    "missing_fields",
			payload: `{"restaurantId":"r1"}`,
			prepareMocks: func(reviews *mocks.ReviewServiceInterface) {
				reviews.On("Submit", mock.Anything, mock.Anything).
					Return(nil, service.ErrMissingFields).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: "Missing required fields",
		},
		{
			name:    "attestation_rejected",
			payload: `{"restaurantId":"r1","clientName":"Alice","reviewText":"x","signedMessage":"{}"}`,
			prepareMocks: func(reviews *mocks.ReviewServiceInterface) {
				reviews.On("Submit", mock.Anything, mock.Anything).
					Return(nil, &service.AttestationError{Reason: "Invalid message format"}).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: "Invalid message format",
		},
		{
			name:    "attestation_replayed",
			payload: `{"restaurantId":"r1","clientName":"Alice","reviewText":"x","signedMessage":"{}"}`,
			prepareMocks: func(reviews *mocks.ReviewServiceInterface) {
				reviews.On("Submit", mock.Anything, mock.Anything).
					Return(nil, service.ErrAttestationUsed).Once()
			},
			expectedCode: http.StatusConflict,
			expectedBody: "Attestation already used",
		},
		{
			name:    "restaurant_not_found",
			payload: `{"restaurantId":"ghost","clientName":"Alice","reviewText":"x","signedMessage":"{}"}`,
			prepareMocks: func(reviews *mocks.ReviewServiceInterface) {
				reviews.On("Submit", mock.Anything, mock.Anything).
					Return(nil, service.ErrRestaurantNotFound).Once()
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "storage_failure",
			payload: `{"restaurantId":"r1","clientName":"Alice","reviewText":"x","signedMessage":"{}"}`,
			prepareMocks: func(reviews *mocks.ReviewServiceInterface) {
				reviews.On("Submit", mock.Anything, mock.Anything).
					Return(nil, errors.New("failed to store review: connection reset")).Once()
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			reviews := mocks.NewReviewServiceInterface(t)
			restaurants := mocks.NewRestaurantServiceInterface(t)
			router := setupTestRouter(reviews, restaurants)
			testCase.prepareMocks(reviews)

			req := httptest.NewRequest("POST", "/submit-review", bytes.NewBufferString(testCase.payload))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_generateSignedMessage(t *testing.T) {
	reviews := mocks.NewReviewServiceInterface(t)
	restaurants := mocks.NewRestaurantServiceInterface(t)
	router := setupTestRouter(reviews, restaurants)

	reviews.On("GenerateSignedMessage", "r1").
		Return(`{"visit_id":"abc","timestamp":1,"signature":"sig"}`, nil).Once()

	req := httptest.NewRequest("POST", "/generate-signed-message", bytes.NewBufferString(`{"restaurantId":"r1"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "signedMessage")
}

func TestHandler_generateSignedMessage_MissingID(t *testing.T) {
	reviews := mocks.NewReviewServiceInterface(t)
	restaurants := mocks.NewRestaurantServiceInterface(t)
	router := setupTestRouter(reviews, restaurants)

	reviews.On("GenerateSignedMessage", "").
		Return("", service.ErrMissingRestaurant).Once()

	req := httptest.NewRequest("POST", "/generate-signed-message", bytes.NewBufferString(`{}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "restaurantId")
}

func TestHandler_registerRestaurant(t *testing.T) {
	reviews := mocks.NewReviewServiceInterface(t)
	restaurants := mocks.NewRestaurantServiceInterface(t)
	router := setupTestRouter(reviews, restaurants)

	restaurants.On("Register", mock.Anything, "ext-1", "pk").
		Return(&domain.Restaurant{ID: "r1", Name: "Restaurant ext-1", PublicKey: "pk"}, nil).Once()

	req := httptest.NewRequest("POST", "/register-restaurant", bytes.NewBufferString(`{"id":"ext-1","publicKey":"pk"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Restaurant ext-1")
}

func TestHandler_getReviews(t *testing.T) {
	reviews := mocks.NewReviewServiceInterface(t)
	restaurants := mocks.NewRestaurantServiceInterface(t)
	router := setupTestRouter(reviews, restaurants)

	now := time.Now()
	reviews.On("ListReviews", mock.Anything, "r1").Return([]domain.Review{
		{ID: "rev2", RestaurantID: "r1", CreatedAt: now},
		{ID: "rev1", RestaurantID: "r1", CreatedAt: now.Add(-time.Hour)},
	}, nil).Once()

	req := httptest.NewRequest("GET", "/reviews/r1", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, "rev2")
	assert.Less(t, bytes.Index(recorder.Body.Bytes(), []byte("rev2")),
		bytes.Index(recorder.Body.Bytes(), []byte("rev1")))
}

func TestHandler_getReviews_EmptyListIsNotNull(t *testing.T) {
	reviews := mocks.NewReviewServiceInterface(t)
	restaurants := mocks.NewRestaurantServiceInterface(t)
	router := setupTestRouter(reviews, restaurants)

	reviews.On("ListReviews", mock.Anything, "r1").Return(nil, nil).Once()

	req := httptest.NewRequest("GET", "/reviews/r1", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"data":[]`)
}

func TestHandler_listRestaurants(t *testing.T) {
	reviews := mocks.NewReviewServiceInterface(t)
	restaurants := mocks.NewRestaurantServiceInterface(t)
	router := setupTestRouter(reviews, restaurants)

	restaurants.On("List", mock.Anything).Return([]domain.Restaurant{
		{ID: "r1", Name: "Chez Demo"},
	}, nil).Once()

	req := httptest.NewRequest("GET", "/restaurants", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Chez Demo")
}

func TestHandler_getQRCode(t *testing.T) {
	reviews := mocks.NewReviewServiceInterface(t)
	restaurants := mocks.NewRestaurantServiceInterface(t)
	router := setupTestRouter(reviews, restaurants)

	restaurants.On("QRCode", "r1").Return([]byte{0x89, 'P', 'N', 'G'}, nil).Once()

	req := httptest.NewRequest("GET", "/restaurants/r1/qrcode", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
}

func TestHandler_health(t *testing.T) {
	reviews := mocks.NewReviewServiceInterface(t)
	restaurants := mocks.NewRestaurantServiceInterface(t)
	router := setupTestRouter(reviews, restaurants)

	req := httptest.NewRequest("GET", "/health", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"storage":"local"`)
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"verified-reviews/internal/domain"
	"verified-reviews/internal/service"
)

type Handler struct {
	Reviews     service.ReviewServiceInterface
	Restaurants service.RestaurantServiceInterface
	Mode        string
}

func NewHandler(reviews service.ReviewServiceInterface, restaurants service.RestaurantServiceInterface, mode string) *Handler {
	return &Handler{Reviews: reviews, Restaurants: restaurants, Mode: mode}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/register-restaurant", h.registerRestaurant).Methods("POST")
	r.HandleFunc("/generate-signed-message", h.generateSignedMessage).Methods("POST")
	r.HandleFunc("/submit-review", h.submitReview).Methods("POST")
	r.HandleFunc("/reviews/{restaurantId}", h.getReviews).Methods("GET")
	r.HandleFunc("/restaurants", h.listRestaurants).Methods("GET")
	r.HandleFunc("/restaurants/{restaurantId}/qrcode", h.getQRCode).Methods("GET")
	r.HandleFunc("/health", h.health).Methods("GET")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func (h *Handler) registerRestaurant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string `json:"id"`
		PublicKey string `json:"publicKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	rest, err := h.Restaurants.Register(r.Context(), req.ID, req.PublicKey)
	if err != nil {
		if errors.Is(err, service.ErrMissingRestaurantFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Restaurant registered successfully",
		"restaurant": rest,
	})
}

func (h *Handler) generateSignedMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RestaurantID string `json:"restaurantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	signed, err := h.Reviews.GenerateSignedMessage(req.RestaurantID)
	if err != nil {
		if errors.Is(err, service.ErrMissingRestaurant) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"signedMessage": signed,
	})
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	review, err := h.Reviews.Submit(r.Context(), req)
	if err != nil {
		var attErr *service.AttestationError
		switch {
		case errors.Is(err, service.ErrMissingFields),
			errors.Is(err, service.ErrRestaurantNotFound),
			errors.Is(err, service.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAttestationUsed):
			writeError(w, http.StatusConflict, err.Error())
		case errors.As(err, &attErr):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Review submitted successfully!",
		"review":  review,
	})
}

func (h *Handler) getReviews(w http.ResponseWriter, r *http.Request) {
	restaurantID := mux.Vars(r)["restaurantId"]
	if restaurantID == "" {
		writeError(w, http.StatusBadRequest, "Restaurant ID is required")
		return
	}

	reviews, err := h.Reviews.ListReviews(r.Context(), restaurantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    reviews,
	})
}

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    restaurants,
	})
}

func (h *Handler) getQRCode(w http.ResponseWriter, r *http.Request) {
	restaurantID := mux.Vars(r)["restaurantId"]

	png, err := h.Restaurants.QRCode(restaurantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"storage": h.Mode,
	})
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"verified-reviews/internal/domain"
)

type snapshot struct {
	Restaurants []domain.Restaurant `json:"restaurants"`
	Reviews     []domain.Review     `json:"reviews"`
	Users       []domain.User       `json:"users"`
}

// LocalStore is the in-process fallback backend: maps guarded by a lock,
// with a best-effort JSON snapshot written after every mutation. A missing
// or corrupt snapshot file is non-fatal; the store starts empty.
type LocalStore struct {
	mu          sync.RWMutex
	path        string
	restaurants map[string]domain.Restaurant
	reviews     map[string][]domain.Review // newest first
	users       map[string]domain.User
}

// NewLocalStore creates a store hydrated from the snapshot at path, if one
// exists. An empty path disables persistence entirely.
func NewLocalStore(path string) *LocalStore {
	s := &LocalStore{
		path:        path,
		restaurants: make(map[string]domain.Restaurant),
		reviews:     make(map[string][]domain.Review),
		users:       make(map[string]domain.User),
	}
	s.load()
	return s
}

func (s *LocalStore) load() {
	if s.path == "" {
		return
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to read local snapshot: %v", err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("Warning: corrupt local snapshot, starting empty: %v", err)
		return
	}

	for _, rest := range snap.Restaurants {
		s.restaurants[rest.ID] = rest
	}
	for _, rev := range snap.Reviews {
		s.reviews[rev.RestaurantID] = append(s.reviews[rev.RestaurantID], rev)
	}
	for _, user := range snap.Users {
		s.users[user.ID] = user
	}
	log.Printf("Loaded local snapshot: %d restaurants, %d reviews, %d users",
		len(snap.Restaurants), len(snap.Reviews), len(snap.Users))
}

// flush writes the snapshot file. Callers must hold at least a read lock.
// Failures are logged and do not affect in-memory state.
func (s *LocalStore) flush() {
	if s.path == "" {
		return
	}

	var snap snapshot
	for _, rest := range s.restaurants {
		snap.Restaurants = append(snap.Restaurants, rest)
	}
	for _, revs := range s.reviews {
		snap.Reviews = append(snap.Reviews, revs...)
	}
	for _, user := range s.users {
		snap.Users = append(snap.Users, user)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Printf("Warning: failed to encode local snapshot: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		log.Printf("Warning: failed to write local snapshot: %v", err)
	}
}

func (s *LocalStore) Mode() string { return "local" }

func (s *LocalStore) UpsertRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restaurants[rest.ID] = *rest
	s.flush()
	return nil
}

func (s *LocalStore) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rest, ok := s.restaurants[id]
	if !ok {
		return nil, nil
	}
	return &rest, nil
}

func (s *LocalStore) AnyRestaurant(ctx context.Context) (*domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rest := range s.restaurants {
		r := rest
		return &r, nil
	}
	return nil, nil
}

func (s *LocalStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Restaurant, 0, len(s.restaurants))
	for _, rest := range s.restaurants {
		out = append(out, rest)
	}
	return out, nil
}

func (s *LocalStore) InsertReview(ctx context.Context, review *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[review.RestaurantID] = append([]domain.Review{*review}, s.reviews[review.RestaurantID]...)
	s.flush()
	return nil
}

func (s *LocalStore) ListReviews(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	revs := s.reviews[restaurantID]
	out := make([]domain.Review, len(revs))
	copy(out, revs)
	return out, nil
}

func (s *LocalStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (s *LocalStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	s.flush()
	return nil
}

func (s *LocalStore) UpdateRestaurantRating(ctx context.Context, restaurantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rest, ok := s.restaurants[restaurantID]
	if !ok {
		return fmt.Errorf("restaurant %s not found", restaurantID)
	}

	revs := s.reviews[restaurantID]
	if len(revs) == 0 {
		rest.AvgRating = 0
		rest.ReviewCount = 0
	} else {
		total := 0
		for _, rev := range revs {
			total += rev.Rating
		}
		rest.AvgRating = float64(total) / float64(len(revs))
		rest.ReviewCount = len(revs)
	}

	s.restaurants[restaurantID] = rest
	s.flush()
	return nil
}

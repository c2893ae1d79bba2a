package storage

import (
	"context"
	"database/sql"
	"time"

	"verified-reviews/internal/domain"
)

const queryTimeout = 5 * time.Second

// PostgresStore is the remote backend adapter. Supabase exposes its tables
// over Postgres, so the same adapter serves both a hosted and a self-managed
// database.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// Probe checks connectivity with a bounded wait. Used once at startup to
// decide between the remote and local backends.
func Probe(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return db.PingContext(ctx)
}

func (s *PostgresStore) Mode() string { return "postgres" }

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

func (s *PostgresStore) UpsertRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO restaurants (id, name, address, public_key, avg_rating, review_count, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    address = EXCLUDED.address,
		    public_key = EXCLUDED.public_key,
		    updated_at = EXCLUDED.updated_at
	`, rest.ID, rest.Name, rest.Address, rest.PublicKey, rest.AvgRating, rest.ReviewCount,
		rest.UserID, rest.CreatedAt, rest.UpdatedAt)
	return err
}

func (s *PostgresStore) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.scanRestaurant(s.DB.QueryRowContext(ctx, `
		SELECT id, name, address, public_key, avg_rating, review_count, user_id, created_at, updated_at
		FROM restaurants
		WHERE id = $1
	`, id))
}

func (s *PostgresStore) AnyRestaurant(ctx context.Context) (*domain.Restaurant, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.scanRestaurant(s.DB.QueryRowContext(ctx, `
		SELECT id, name, address, public_key, avg_rating, review_count, user_id, created_at, updated_at
		FROM restaurants
		LIMIT 1
	`))
}

func (s *PostgresStore) scanRestaurant(row *sql.Row) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := row.Scan(&rest.ID, &rest.Name, &rest.Address, &rest.PublicKey,
		&rest.AvgRating, &rest.ReviewCount, &rest.UserID, &rest.CreatedAt, &rest.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (s *PostgresStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, address, public_key, avg_rating, review_count, user_id, created_at, updated_at
		FROM restaurants
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Address, &rest.PublicKey,
			&rest.AvgRating, &rest.ReviewCount, &rest.UserID, &rest.CreatedAt, &rest.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}

func (s *PostgresStore) InsertReview(ctx context.Context, review *domain.Review) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO reviews (id, restaurant_id, user_id, client_name, rating, review_text, is_verified, verification_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, review.ID, review.RestaurantID, review.UserID, review.ClientName, review.Rating,
		review.ReviewText, review.Verified, review.VerificationID, review.CreatedAt, review.UpdatedAt)
	return err
}

func (s *PostgresStore) ListReviews(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, user_id, client_name, rating, review_text, is_verified, verification_id, created_at, updated_at
		FROM reviews
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.RestaurantID, &rev.UserID, &rev.ClientName, &rev.Rating,
			&rev.ReviewText, &rev.Verified, &rev.VerificationID, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var user domain.User
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.FirstName, user.LastName, user.Email, user.CreatedAt, user.UpdatedAt)
	return err
}

func (s *PostgresStore) UpdateRestaurantRating(ctx context.Context, restaurantID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.DB.ExecContext(ctx, `
		UPDATE restaurants
		SET avg_rating = (
			SELECT COALESCE(ROUND(AVG(rating::numeric), 2), 0)
			FROM reviews
			WHERE restaurant_id = $1
		),
		review_count = (
			SELECT COUNT(*)
			FROM reviews
			WHERE restaurant_id = $1
		)
		WHERE id = $1
	`, restaurantID)
	return err
}

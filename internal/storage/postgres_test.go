package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verified-reviews/internal/domain"
)

var restaurantColumns = []string{
	"id", "name", "address", "public_key", "avg_rating", "review_count",
	"user_id", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresStore_GetRestaurant(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows(restaurantColumns).
		AddRow("r1", "Chez Demo", "123 Main Street", "pk", 4.5, 10, "u1", now, now)
	mock.ExpectQuery("SELECT id, name, address, public_key").
		WithArgs("r1").
		WillReturnRows(rows)

	rest, err := store.GetRestaurant(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, rest)
	assert.Equal(t, "Chez Demo", rest.Name)
	assert.Equal(t, 4.5, rest.AvgRating)
}

func TestPostgresStore_GetRestaurant_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, address, public_key").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(restaurantColumns))

	rest, err := store.GetRestaurant(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, rest)
}

func TestPostgresStore_UpsertRestaurant(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectExec("INSERT INTO restaurants").
		WithArgs("r1", "Chez Demo", "123 Main Street", "pk", 0.0, 0, "u1", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpsertRestaurant(context.Background(), &domain.Restaurant{
		ID: "r1", Name: "Chez Demo", Address: "123 Main Street", PublicKey: "pk",
		UserID: "u1", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertReview(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs("rev1", "r1", "u1", "Alice", 4, "Rating: 4/5 - solid", true, "vid-1", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.InsertReview(context.Background(), &domain.Review{
		ID: "rev1", RestaurantID: "r1", UserID: "u1", ClientName: "Alice",
		Rating: 4, ReviewText: "Rating: 4/5 - solid", Verified: true,
		VerificationID: "vid-1", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListReviews(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	columns := []string{
		"id", "restaurant_id", "user_id", "client_name", "rating", "review_text",
		"is_verified", "verification_id", "created_at", "updated_at",
	}
	rows := sqlmock.NewRows(columns).
		AddRow("rev2", "r1", "u1", "Bob", 5, "newer", true, "vid-2", now, now).
		AddRow("rev1", "r1", "u1", "Alice", 3, "older", true, "vid-1", now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery("SELECT id, restaurant_id, user_id").
		WithArgs("r1").
		WillReturnRows(rows)

	reviews, err := store.ListReviews(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "rev2", reviews[0].ID)
	assert.Equal(t, "rev1", reviews[1].ID)
}

func TestPostgresStore_GetUserByEmail_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	columns := []string{"id", "first_name", "last_name", "email", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT id, first_name, last_name, email").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(columns))

	user, err := store.GetUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestPostgresStore_UpdateRestaurantRating(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE restaurants").
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpdateRestaurantRating(context.Background(), "r1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/model"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := New(context.Background(), ":memory:", logger)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	// t.Cleanup is like defer, but scoped to the test, and it works in subtests.
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser is a test helper that creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		FirstName:    "Joe",
		LastName:     "Smith",
		EmailAddress: email,
		Password:     "$2a$04$not-a-real-hash",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		FirstName:    "Sally",
		LastName:     "Jones",
		EmailAddress: "sally@jones.com",
		Password:     "hashed",
	}
	require.NoError(t, db.CreateUser(context.Background(), user))

	// Modified in place (pointer receiver)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.UpdatedAt.IsZero())
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "joe@smith.com")

	duplicate := &model.User{
		FirstName:    "Other",
		LastName:     "Joe",
		EmailAddress: "joe@smith.com",
		Password:     "hashed",
	}
	err := db.CreateUser(context.Background(), duplicate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict), "error = %v, want ErrConflict", err)
}

func TestGetUserByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "joe@smith.com")

	found, err := db.GetUserByEmail(context.Background(), "joe@smith.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Password, found.Password)
	assert.WithinDuration(t, created.CreatedAt, found.CreatedAt, time.Second)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByEmail(context.Background(), "nobody@smith.com")
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v, want ErrNotFound", err)
}

func TestGetUserByEmail_IsCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "joe@smith.com")

	_, err := db.GetUserByEmail(context.Background(), "Joe@Smith.com")
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v, want ErrNotFound", err)
}

func TestReopenFileDatabaseKeepsData(t *testing.T) {
	path := t.TempDir() + "/coursehub.db"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := New(context.Background(), path, logger)
	require.NoError(t, err)
	user := createTestUser(t, db, "joe@smith.com")
	require.NoError(t, db.Close())

	// Migrations already applied: reopening must not fail or wipe data.
	db, err = New(context.Background(), path, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	found, err := db.GetUserByEmail(context.Background(), "joe@smith.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

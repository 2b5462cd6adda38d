package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/coursehub/internal/auth"
	sqliteRepo "github.com/sakif/coursehub/internal/repository/sqlite"
	"github.com/sakif/coursehub/internal/service"
)

// These tests go through registration and the store, so a hash is checked in
// the form it actually takes in the users table.

func newRegistrationEnv(t *testing.T, cost int) (*service.UserService, *sqliteRepo.DB, *auth.PasswordService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqliteRepo.New(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ps, err := auth.NewPasswordService(cost)
	require.NoError(t, err)

	return service.NewUserService(db, ps, logger), db, ps
}

func register(t *testing.T, users *service.UserService, email, password string) {
	t.Helper()
	_, err := users.Register(context.Background(), service.RegisterInput{
		FirstName:       "Joe",
		LastName:        "Smith",
		EmailAddress:    email,
		Password:        password,
		PasswordConfirm: password,
	})
	require.NoError(t, err)
}

func TestStoredHash_VerifiesAfterRegistration(t *testing.T) {
	users, db, ps := newRegistrationEnv(t, bcrypt.MinCost)
	register(t, users, "joe@smith.com", "joepassword")

	stored, err := db.GetUserByEmail(context.Background(), "joe@smith.com")
	require.NoError(t, err)

	assert.NotEqual(t, "joepassword", stored.Password)
	assert.NoError(t, ps.Verify(stored.Password, "joepassword"))
	assert.ErrorIs(t, ps.Verify(stored.Password, "sallypassword"), auth.ErrPasswordMismatch)
}

func TestStoredHash_CarriesConfiguredCost(t *testing.T) {
	const cost = bcrypt.MinCost + 1
	users, db, _ := newRegistrationEnv(t, cost)
	register(t, users, "joe@smith.com", "joepassword")

	stored, err := db.GetUserByEmail(context.Background(), "joe@smith.com")
	require.NoError(t, err)

	got, err := bcrypt.Cost([]byte(stored.Password))
	require.NoError(t, err)
	assert.Equal(t, cost, got)
}

func TestStoredHash_SamePasswordStoredDifferently(t *testing.T) {
	users, db, _ := newRegistrationEnv(t, bcrypt.MinCost)
	register(t, users, "joe@smith.com", "sharedpassword")
	register(t, users, "sally@jones.com", "sharedpassword")

	joe, err := db.GetUserByEmail(context.Background(), "joe@smith.com")
	require.NoError(t, err)
	sally, err := db.GetUserByEmail(context.Background(), "sally@jones.com")
	require.NoError(t, err)

	assert.NotEqual(t, joe.Password, sally.Password)
}

func TestAuthenticate_RegisteredUser(t *testing.T) {
	users, db, ps := newRegistrationEnv(t, bcrypt.MinCost)
	register(t, users, "joe@smith.com", "joepassword")
	authn := auth.NewAuthenticator(db, ps)

	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.SetBasicAuth("joe@smith.com", "joepassword")
	user, err := authn.Authenticate(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "joe@smith.com", user.EmailAddress)

	r = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.SetBasicAuth("joe@smith.com", "JoePassword")
	_, err = authn.Authenticate(context.Background(), r)
	assert.True(t, auth.IsCredentialFailure(err), "error = %v", err)
}

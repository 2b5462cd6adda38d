// Package auth implements HTTP Basic authentication and password hashing.
//
// Every protected request carries the caller's credentials:
//
//	Authorization: Basic base64(emailAddress:password)
//
// There is no session and no token. The Authenticator resolves the user and
// checks the password on every request, and nothing is remembered between
// requests. Basic credentials are only base64-encoded, so the API must sit
// behind TLS in production.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/model"
)

// Reasons an authentication attempt is rejected. They are logged, never
// returned to the client: the response is the same 401 for all three.
var (
	ErrMissingCredentials = errors.New("missing or malformed basic credentials")
	ErrUnknownUser        = errors.New("no user with that email address")
	ErrBadPassword        = errors.New("password does not match")
)

// IsCredentialFailure reports whether err is one of the rejection reasons
// above, as opposed to a failure of the store or the hasher.
func IsCredentialFailure(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrUnknownUser) ||
		errors.Is(err, ErrBadPassword)
}

// UserFinder is the slice of the user store the Authenticator needs.
// repository.UserRepository satisfies it.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Authenticator verifies Basic credentials against stored bcrypt hashes.
// It holds no per-request state and is safe for concurrent use.
type Authenticator struct {
	users     UserFinder
	passwords *PasswordService
}

func NewAuthenticator(users UserFinder, passwords *PasswordService) *Authenticator {
	return &Authenticator{users: users, passwords: passwords}
}

// Authenticate resolves the user named by r's Basic credentials.
//
// STEPS (each failure stops here):
//  1. parse the header               → ErrMissingCredentials
//  2. look the email up, exact match → ErrUnknownUser
//  3. compare the password hash      → ErrBadPassword
//
// Any other error (database down, corrupt hash) is returned wrapped so the
// caller can tell "you are not allowed in" from "we are broken".
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (*model.User, error) {
	email, password, ok := r.BasicAuth()
	if !ok {
		return nil, ErrMissingCredentials
	}

	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("auth: looking up user: %w", err)
	}

	if err := a.passwords.Verify(user.Password, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, ErrBadPassword
		}
		return nil, fmt.Errorf("auth: verifying password for user %s: %w", user.ID, err)
	}

	return user, nil
}

package auth

import (
	"log/slog"
	"net/http"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/model"
)

// AccessDenied is the only thing a caller learns about a failed login.
const AccessDenied = "Access Denied"

// HandlerFunc is an HTTP handler that runs for an authenticated caller.
//
// WHY AN EXTRA PARAMETER INSTEAD OF THE CONTEXT?
// Stashing the user in r.Context() means every handler has to fish it back
// out and handle the "not there" case, which can only happen if routing is
// misconfigured. As an argument the dependency shows in the signature, a
// HandlerFunc is not an http.HandlerFunc until Require wraps it, and tests
// can call it with any user directly.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, user *model.User)

// ErrorWriter renders an error response. The handler package supplies one so
// that 401s and 500s from here have the same shape as every other error.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware adapts HandlerFuncs to plain http.HandlerFuncs by running the
// Authenticator first.
type Middleware struct {
	authn    *Authenticator
	writeErr ErrorWriter
	logger   *slog.Logger
}

func NewMiddleware(authn *Authenticator, writeErr ErrorWriter, logger *slog.Logger) *Middleware {
	return &Middleware{
		authn:    authn,
		writeErr: writeErr,
		logger:   logger,
	}
}

// Require authenticates the request and, on success, calls next with the
// resolved user. On a credential failure it answers 401 with a generic
// message and logs the real reason; on an internal failure it passes the
// error through so the caller gets a 500.
//
// Authentication runs before anything in next, so an anonymous request
// never reaches a lookup, an ownership check or body validation.
func (m *Middleware) Require(next HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authn.Authenticate(r.Context(), r)
		if err != nil {
			if IsCredentialFailure(err) {
				m.logger.Warn("authentication failed",
					slog.String("reason", err.Error()),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				m.writeErr(w, r, apperror.Unauthenticated(AccessDenied))
				return
			}
			m.logger.Error("authentication error", slog.String("error", err.Error()))
			m.writeErr(w, r, err)
			return
		}

		next(w, r, user)
	}
}

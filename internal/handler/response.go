package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON, writeEmpty or writeError so the
// API has exactly two error shapes:
//
//	{"message": "Course was not found."}                  one problem
//	{"errors": ["Please provide a value for \"title\""]}   validation, one entry per problem
//
// The client branches on which key is present, never on the status text.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/auth"
)

// MsgInternal is the only thing a client learns about a server-side failure.
const MsgInternal = "An internal error occurred"

// maxBodyBytes caps request bodies. Courses are the largest payload and a
// megabyte of description is already absurd.
const maxBodyBytes = 1 << 20

// MessageResponse is the body of every non-validation error.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationResponse is the body of a 400 caused by invalid input.
type ValidationResponse struct {
	Errors []string `json:"errors"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set before the body is written. Once Encode
// calls w.Write the headers are on the wire and later changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent, we can only log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeEmpty sends a bodiless response, optionally pointing at a resource.
func writeEmpty(w http.ResponseWriter, status int, location string) {
	if location != "" {
		w.Header().Set("Location", location)
	}
	w.WriteHeader(status)
}

// writeError maps an error to its HTTP status and body.
//
// ERROR MAPPING:
//
//	KindValidation      → 400 {"errors": [...]}
//	KindUnauthenticated → 401 {"message": ...}
//	KindForbidden       → 403 {"message": ...}
//	KindNotFound        → 404 {"message": ...}
//	KindConflict        → 409 {"message": ...}
//	KindInternal        → 500 generic message, real error only in the log
//
// The switch lists every Kind. Adding a Kind without a case here falls into
// the 500 branch, which is loud in the logs.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch kind := apperror.KindOf(err); kind {
	case apperror.KindValidation:
		writeJSON(w, http.StatusBadRequest, ValidationResponse{Errors: apperror.Messages(err)})
	case apperror.KindUnauthenticated:
		writeJSON(w, http.StatusUnauthorized, MessageResponse{Message: messageOf(err)})
	case apperror.KindForbidden:
		writeJSON(w, http.StatusForbidden, MessageResponse{Message: messageOf(err)})
	case apperror.KindNotFound:
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: messageOf(err)})
	case apperror.KindConflict:
		writeJSON(w, http.StatusConflict, MessageResponse{Message: messageOf(err)})
	case apperror.KindInternal:
		fallthrough
	default:
		// NEVER expose internal error details to the client. The raw message
		// can contain SQL, file paths or other things we don't want to leak.
		logger.Error("request failed",
			slog.String("requestID", chimiddleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: MsgInternal})
	}
}

// ErrorWriter returns writeError bound to logger, in the form auth.Middleware
// takes, so 401s and auth-time 500s share the shapes above.
func ErrorWriter(logger *slog.Logger) auth.ErrorWriter {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		writeError(w, r, logger, err)
	}
}

// messageOf returns the client-facing message of the AppError in err's
// chain, without the wrapping context added on the way up.
func messageOf(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// errMalformedBody marks a request body that is not the JSON we expect.
var errMalformedBody = errors.New("request body must be a JSON object")

// decodeJSON reads r's body into dst. An empty body decodes as {} so that a
// bare POST gets the usual "please provide a value" list instead of a parse
// error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(errMalformedBody, err)
	}
	return nil
}

// writeMalformed answers a body decodeJSON rejected.
func writeMalformed(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Warn("malformed request body", slog.String("error", err.Error()))
	writeJSON(w, http.StatusBadRequest, MessageResponse{Message: errMalformedBody.Error()})
}

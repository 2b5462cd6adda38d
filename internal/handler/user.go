// Package handler contains the HTTP handlers of the coursehub API.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming request (URL params, JSON body)
//  2. Call the service layer
//  3. Write the response (status, headers, body)
//
// Handlers hold no business rules. Anything that decides whether a request
// is allowed or valid lives in internal/service.
//
// Handlers on protected routes take the authenticated user as a third
// argument (auth.HandlerFunc) and are mounted behind auth.Middleware.Require.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/coursehub/internal/model"
	"github.com/sakif/coursehub/internal/service"
)

// UserHandler serves /api/users.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// registerRequest is the JSON body of POST /api/users.
type registerRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	EmailAddress    string `json:"emailAddress"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// HandleCurrent returns the authenticated user's profile.
//
// HTTP: GET /api/users
// Auth: required
//
// RESPONSE: {"id":"...","firstName":"Joe","lastName":"Smith","emailAddress":"joe@smith.com"}
func (h *UserHandler) HandleCurrent(w http.ResponseWriter, r *http.Request, user *model.User) {
	writeJSON(w, http.StatusOK, user.Profile())
}

// HandleRegister creates a user.
//
// HTTP: POST /api/users
// REQUEST BODY: {"firstName","lastName","emailAddress","password","passwordConfirm"}
//
// 201 with Location "/" and no body on success, 400 with every validation
// message otherwise.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMalformed(w, h.logger, err)
		return
	}

	_, err := h.users.Register(r.Context(), service.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		EmailAddress:    req.EmailAddress,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeEmpty(w, http.StatusCreated, "/")
}

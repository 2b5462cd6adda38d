// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept plain Go values and return apperror-tagged errors. They
// know nothing about HTTP, which is why the same UserService backs both the
// POST /api/users handler and the `coursehub user create` command.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/auth"
	"github.com/sakif/coursehub/internal/model"
	"github.com/sakif/coursehub/internal/repository"
)

// Registration messages, returned verbatim to the client.
const (
	MsgFirstNameRequired       = `Please provide a value for "firstName"`
	MsgLastNameRequired        = `Please provide a value for "lastName"`
	MsgEmailRequired           = `Please provide a value for "emailAddress"`
	MsgPasswordRequired        = `Please provide a value for "password"`
	MsgPasswordConfirmRequired = `Please provide a value for "passwordConfirm"`
	MsgPasswordsMustMatch      = "Passwords must match"
	MsgPasswordTooLong         = "Password must be 72 bytes or fewer"
	MsgEmailInUse              = "The email address you entered is already in use"
)

// RegisterInput is what a new user submits.
type RegisterInput struct {
	FirstName       string
	LastName        string
	EmailAddress    string
	Password        string
	PasswordConfirm string
}

// UserService handles registration.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(repo repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

// Register validates in and creates the user.
//
// VALIDATION ORDER (the client shows messages in this order):
//  1. every required field, one message per missing field
//  2. password and confirmation must match (only when both were given)
//  3. the password fits bcrypt's 72-byte input
//  4. the email address must not already be registered (only when given)
//
// All failures are collected and returned together as a single validation
// error; nothing is written unless the list is empty. Names and email are
// trimmed, a whitespace-only value counts as missing. Passwords are used
// exactly as typed.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.EmailAddress = strings.TrimSpace(in.EmailAddress)

	var v apperror.Violations
	v.Check(in.FirstName != "", MsgFirstNameRequired)
	v.Check(in.LastName != "", MsgLastNameRequired)
	v.Check(in.EmailAddress != "", MsgEmailRequired)
	v.Check(in.Password != "", MsgPasswordRequired)
	v.Check(in.PasswordConfirm != "", MsgPasswordConfirmRequired)

	if in.Password != "" && in.PasswordConfirm != "" {
		v.Check(in.Password == in.PasswordConfirm, MsgPasswordsMustMatch)
	}
	v.Check(len(in.Password) <= auth.MaxPasswordBytes, MsgPasswordTooLong)

	if in.EmailAddress != "" {
		taken, err := s.emailTaken(ctx, in.EmailAddress)
		if err != nil {
			return nil, err
		}
		v.Check(!taken, MsgEmailInUse)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		EmailAddress: in.EmailAddress,
		Password:     hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same address.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Invalid(MsgEmailInUse)
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("id", user.ID))
	return user, nil
}

func (s *UserService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperror.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("checking email uniqueness: %w", err)
	}
}

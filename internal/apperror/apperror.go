// Package apperror defines the domain errors shared by the store, service and
// HTTP layers. Every error carries a Kind so the HTTP layer can switch on it
// instead of inspecting error strings.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("Validation Error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	// KindInternal is anything we did not anticipate: store failures, bugs.
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type AppError struct {
	Kind    Kind
	Err     error    // sentinel, for errors.Is
	Message string   // Human-readable error message
	Details []string // Validation messages, in the order they were found
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Messages returns the validation messages carried by err. Any other
// AppError yields its message alone.
func Messages(err error) []string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return nil
	}
	if len(appErr.Details) > 0 {
		return appErr.Details
	}
	return []string{appErr.Message}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Invalid bundles several validation messages into a single error.
func Invalid(messages ...string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Err:     ErrValidation,
		Message: "validation failed",
		Details: messages,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Kind:    KindForbidden,
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthenticated is returned when credentials are missing or wrong. The
// message is what the caller sees, so keep it generic.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Kind:    KindUnauthenticated,
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// Violations collects validation failures so that a caller can report all of
// them at once rather than stopping at the first.
//
//	var v apperror.Violations
//	v.Check(title != "", `Please provide a value for "title"`)
//	v.Check(desc != "", `Please provide a value for "description"`)
//	return v.Err()
type Violations struct {
	messages []string
}

// Add records a failure unconditionally.
func (v *Violations) Add(message string) {
	v.messages = append(v.messages, message)
}

// Check records message when ok is false.
func (v *Violations) Check(ok bool, message string) {
	if !ok {
		v.Add(message)
	}
}

func (v *Violations) empty() bool {
	return len(v.messages) == 0
}

// Err returns nil when nothing was recorded.
func (v *Violations) Err() error {
	if v.empty() {
		return nil
	}
	msgs := make([]string, len(v.messages))
	copy(msgs, v.messages)
	return Invalid(msgs...)
}

// Package apperror defines the domain error taxonomy shared by every request
// handler. A failure that crosses the handler boundary is always one of three
// kinds; anything unclassified is treated as a system fault.
package apperror

import (
	"errors"
	"net/http"
)

// Kind tags a domain error with its failure class.
type Kind int

const (
	// KindInput means the caller supplied bad or unverifiable data.
	KindInput Kind = iota

	// KindAccess means the caller is unauthenticated or unauthorized.
	KindAccess

	// KindSystem covers provider, storage and every other internal fault.
	KindSystem
)

// SystemErrorMessage is the only message a system fault ever shows a caller.
const SystemErrorMessage = "a system error occurred"

// Error is a classified domain error. Status, when non-zero, overrides the
// default transport status for the kind (409 for conflicts, 413 for oversize
// uploads).
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewInput creates a caller-input error.
func NewInput(message string) *Error {
	return &Error{Kind: KindInput, Message: message}
}

// NewAccess creates an authentication/authorization error.
func NewAccess(message string) *Error {
	return &Error{Kind: KindAccess, Message: message}
}

// NewSystem creates an internal error wrapping its cause. The cause is for
// operators only and is never shown to the caller.
func NewSystem(message string, err error) *Error {
	return &Error{Kind: KindSystem, Message: message, Err: err}
}

// WithStatus returns a copy of the error with an explicit transport status.
func (e *Error) WithStatus(status int) *Error {
	clone := *e
	clone.Status = status
	return &clone
}

// Classify maps any error to the transport status and caller-visible message
// for it. Unclassified errors surface as a generic system fault so that no
// internal detail leaks.
func Classify(err error) (int, string) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, SystemErrorMessage
	}

	if appErr.Status != 0 {
		return appErr.Status, appErr.Message
	}

	switch appErr.Kind {
	case KindInput:
		return http.StatusBadRequest, appErr.Message
	case KindAccess:
		return http.StatusUnauthorized, appErr.Message
	default:
		return http.StatusInternalServerError, SystemErrorMessage
	}
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

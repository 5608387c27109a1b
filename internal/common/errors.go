// Package common provides shared errors and logging utilities used across
// the application.
package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure categories reported by the sync engine.
var (
	// Validation errors, detected before any network call.
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrFutureDate    = errors.New("date is in the future")

	// Conflict and lookup errors.
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrMissingID         = errors.New("missing id")

	// Remote errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnreachable  = errors.New("server unreachable")

	// Export errors.
	ErrEmptyLedger = errors.New("ledger is empty")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// ValidationError reports the first submission rule a payload failed.
type ValidationError struct {
	Err     error  // one of ErrMissingField, ErrInvalidAmount, ErrFutureDate
	Field   string // name of the offending input field
	Message string // human-readable message shown to the user
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-2xx response from the ledger service.
type RemoteError struct {
	Message    string // server-supplied message, may be empty
	StatusCode int
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

func (e *RemoteError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return nil
}

// UserMessage translates err into a message fit for the notifier. Messages
// carried by the error itself win, then server-supplied messages, then
// connection phrasing when no response was received at all; fallback covers
// the rest.
func UserMessage(err error, fallback string) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Message != "" {
		return remoteErr.Message
	}

	if errors.Is(err, ErrUnreachable) {
		return "Unable to reach the server. Please check your connection."
	}

	return fallback
}

package services

import (
	"errors"
	"fmt"

	"waiter/internal/repositories"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrImageStorageDisabled is returned by image operations when no object
// storage is configured.
var ErrImageStorageDisabled = errors.New("image storage is not configured")

// ValidationError is a client error. Message is safe to return to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// mapRepoError converts repository sentinels into service errors.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrOrderingConflict):
		return newValidationError("", "An order in ORDERING state already exists for this table and customer.")
	case errors.Is(err, repositories.ErrInvalidReference):
		return newValidationError("", "Referenced object does not exist.")
	default:
		return err
	}
}

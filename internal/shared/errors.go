package shared

import (
	"errors"
	"fmt"
)

// Sentinel errors shared between the repository and service layers.
// Handlers map them to HTTP statuses in one place.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")

	ErrUsernameTaken   = &ValidationError{Msg: "username is taken"}
	ErrAlreadyMain     = &ValidationError{Msg: "this is already your main photo"}
	ErrDeleteMainPhoto = &ValidationError{Msg: "you cannot delete your main photo"}
	ErrSelfMessage     = &ValidationError{Msg: "you cannot send messages to yourself"}
)

// ValidationError marks caller-input failures. The operation has no effect.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation-class error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

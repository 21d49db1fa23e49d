package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the quiz lifecycle. Handlers translate these to HTTP
// statuses: not found -> 404, forbidden -> 403, state conflicts and
// validation failures -> 400.
var (
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrForbidden          = errors.New("not authorized for this quiz")
	ErrQuizNotJoinable    = errors.New("quiz has already started")
	ErrQuizAlreadyActive  = errors.New("quiz is already active")
	ErrQuizNotActive      = errors.New("quiz is not active")
	ErrNoParticipants     = errors.New("cannot start a quiz with no participants")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique join code")
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is an invalid state transition.
func IsConflict(err error) bool {
	return errors.Is(err, ErrQuizNotJoinable) ||
		errors.Is(err, ErrQuizAlreadyActive) ||
		errors.Is(err, ErrQuizNotActive) ||
		errors.Is(err, ErrNoParticipants)
}

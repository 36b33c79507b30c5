package services

import "errors"

var (
	ErrInvalidWeekStart = errors.New("week start must be a Monday")
	ErrInvalidSwap      = errors.New("invalid swap")
	// ErrUpstream marks failures of the AI collaborator, including a missing
	// or malformed response.
	ErrUpstream = errors.New("ai provider error")
)

// ValidationError is returned for requests that are well formed JSON but carry
// missing or inconsistent values.
type ValidationError struct {
	Message string
}

func (err *ValidationError) Error() string {
	return err.Message
}

func validationError(message string) error {
	return &ValidationError{Message: message}
}

package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an ID does not match any session or log.
var ErrNotFound = errors.New("not found")

// ValidationError reports input that a command refuses to act on.
// Nothing is changed when it is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

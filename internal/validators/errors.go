package validators

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLength       = errors.New("invalid length")
	ErrInvalidFormat       = errors.New("invalid format")
	ErrEmptyField          = errors.New("empty field")
	ErrHeadquarterMismatch = errors.New("headquarter mismatch")
	ErrPrefixMismatch      = errors.New("prefix mismatch")
	ErrCountryMismatch     = errors.New("country mismatch")
)

// ValidationError reports which field failed which rule. It unwraps to one
// of the sentinel errors above.
type ValidationError struct {
	Field   string
	Value   string
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field, value string, kind error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Err:     kind,
		Message: fmt.Sprintf(format, args...),
	}
}

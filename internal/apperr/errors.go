package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all domain packages. Stores translate raw
// persistence failures into these; handlers translate them into HTTP
// status codes and localized messages.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a business-rule violation on a single input
// field. Key is an i18n message key; localization happens at the edge.
type ValidationError struct {
	Field string
	Key   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Key)
}

// Validation builds a ValidationError for the given field and message key.
func Validation(field, key string) error {
	return &ValidationError{Field: field, Key: key}
}

// IsValidation reports whether err is (or wraps) a ValidationError and
// returns it if so.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}

	return nil, false
}

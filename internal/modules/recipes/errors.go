package recipes

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("recipe not found")
	ErrAlreadyFavorited = errors.New("recipe already in favorites")
	ErrNotFavorited     = errors.New("recipe not in favorites")
	ErrAlreadyInCart    = errors.New("recipe already in shopping cart")
	ErrNotInCart        = errors.New("recipe not in shopping cart")
)

// FieldError is one validation failure, tied to the offending field so
// clients can fix every problem in a single round trip.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failure found in a payload rather than
// stopping at the first one.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, fe := range v {
		messages[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(messages, "; ")
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

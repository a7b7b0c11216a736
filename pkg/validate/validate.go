// Package validate carries field-level validation failures as a single
// error value services can return and transports can map to a 400.
package validate

import (
	"fmt"
	"strings"
)

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field builds a single-field validation error.
func Field(field, reason string) ValidationErrors {
	return ValidationErrors{{Field: field, Reason: reason}}
}

// Required reports a missing mandatory field.
func Required(field string) ValidationErrors {
	return Field(field, "is required")
}

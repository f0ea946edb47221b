package core

// validation.go checks service input before it reaches a repository.
//
// A Validator collects every problem in one pass so a caller sees all of
// them at once. The resulting error matches ErrValidation with errors.Is.

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field/column name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// ValidationErrors is a list of field problems reported together.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e ValidationErrors) Is(target error) bool { return target == ErrValidation }

// Validator accumulates field problems.
type Validator struct {
	errs ValidationErrors
}

// Check records message against field when ok is false.
func (v *Validator) Check(ok bool, field, value, message string) {
	if !ok {
		v.errs = append(v.errs, ValidationError{Field: field, Value: value, Message: message})
	}
}

// Required flags a blank value.
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, value, "is required")
}

// RequiredID flags a missing reference.
func (v *Validator) RequiredID(field string, id uuid.UUID) {
	v.Check(id != uuid.Nil, field, "", "is required")
}

// ExactLength flags a value that is not exactly n characters long.
func (v *Validator) ExactLength(field, value string, n int) {
	v.Check(utf8.RuneCountInString(value) == n, field, value,
		fmt.Sprintf("must be exactly %d characters", n))
}

// NonNegative flags a present number below zero.
func NonNegative[N int | float64](v *Validator, field string, n *N) {
	if n == nil {
		return
	}
	v.Check(*n >= 0, field, fmt.Sprint(*n), "must not be negative")
}

// Err returns the collected problems, or nil.
func (v *Validator) Err() error {
	switch len(v.errs) {
	case 0:
		return nil
	case 1:
		return v.errs[0]
	default:
		return v.errs
	}
}

package core

import "errors"

var (
	// ErrNotFound is returned when no active record matches.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a natural key is already taken by another
	// active record.
	ErrConflict = errors.New("already exists")

	// ErrValidation marks malformed or incomplete input.
	ErrValidation = errors.New("validation failed")
)

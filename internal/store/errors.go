package store

import "errors"

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates that the caller is not authorized for the action.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a uniqueness or state conflict.
	ErrConflict = errors.New("conflict")
)

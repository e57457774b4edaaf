package repository

import "errors"

// Sentinel errors shared by all repository implementations.
var (
	// ErrNotFound maps a missing row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate maps a unique-constraint violation.
	ErrDuplicate = errors.New("duplicate")
)

package model

import "errors"

var (
	// ErrInvalidRequest covers malformed dates, non-positive targets,
	// unknown response kinds, and empty contact names.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrIdentityConflict is returned when an operation would create a
	// second identity for an existing contact name.
	ErrIdentityConflict = errors.New("identity conflict")

	// ErrStoreUnavailable is returned when the database cannot be reached
	// or the bounded wait for the writer is exceeded.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrNotFound = errors.New("not found")
)

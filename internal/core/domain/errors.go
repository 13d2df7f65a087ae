package domain

import "errors"

var (
	// ErrDuplicateKey reports a unique-field collision (email) on create or update.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound reports an operation targeting a nonexistent id.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated reports a mutating call made without an actor.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnavailable reports that the remote database is unreachable. Sticky once raised.
	ErrUnavailable = errors.New("service temporarily unavailable")
	// ErrInvalidInput reports a missing required field or an unknown enum value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidReference reports a foreign id that names no live record.
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrForbidden reports an actor lacking the role an operation requires.
	ErrForbidden = errors.New("access forbidden")
)

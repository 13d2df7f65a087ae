package ports

import "context"

// Collection is a named list of records persisted as a whole. Reads return the
// full materialised list in insertion order; writes replace it entirely.
type Collection[T any] interface {
	ReadAll(ctx context.Context) ([]T, error)
	ReplaceAll(ctx context.Context, items []T) error
}

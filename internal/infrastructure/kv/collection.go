package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection persists a list of T under a single key.
type Collection[T any] struct {
	sub Substrate
	key string
}

// NewCollection binds a typed collection to key on sub.
func NewCollection[T any](sub Substrate, key string) *Collection[T] {
	return &Collection[T]{sub: sub, key: key}
}

// Key returns the key the collection is stored under.
func (c *Collection[T]) Key() string { return c.key }

// ReadAll returns the stored list, or an empty list if the key was never written.
func (c *Collection[T]) ReadAll(ctx context.Context) ([]T, error) {
	data, err := c.sub.Get(ctx, c.key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// ReplaceAll overwrites the stored list with items in one write.
func (c *Collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.sub.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

package kv

import "context"

// Noop stands in when no persistent storage is available. Every read finds
// nothing and every write is dropped without error.
type Noop struct{}

func (Noop) Name() string { return "none" }

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrKeyNotFound }

func (Noop) Set(context.Context, string, []byte) error { return nil }

func (Noop) Delete(context.Context, string) error { return nil }

func (Noop) Ping(context.Context) error { return nil }

func (Noop) Close() error { return nil }

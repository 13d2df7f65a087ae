// Package kv provides the durable key-value substrates the store persists its
// collections into, plus the generic Collection that sits on top of them.
//
// Every collection lives under one key: the value is the JSON encoding of the
// whole list. Reads materialise the full list and writes replace it.
package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("kv: key not found")

// Substrate is a byte-oriented key-value store.
type Substrate interface {
	// Name identifies the backend in logs and health output.
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "clientdesk:"

// Keys holds the fully-qualified key of every collection plus the seed marker.
type Keys struct {
	Users         string
	Clients       string
	Projects      string
	Resources     string
	Activities    string
	Notifications string
	Initialized   string
}

// NewKeys builds the key set under prefix. An empty prefix uses DefaultPrefix.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{
		Users:         prefix + "users",
		Clients:       prefix + "clients",
		Projects:      prefix + "projects",
		Resources:     prefix + "resources",
		Activities:    prefix + "activities",
		Notifications: prefix + "notifications",
		Initialized:   prefix + "initialized",
	}
}

// Collections returns every collection key, users first.
func (k Keys) Collections() []string {
	return []string{k.Users, k.Clients, k.Projects, k.Resources, k.Activities, k.Notifications}
}

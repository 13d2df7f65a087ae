package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestCollection_ReadAllUninitialised(t *testing.T) {
	c := NewCollection[record](NewMemory(), "test:records")

	items, err := c.ReadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCollection_ReplaceAllPreservesOrder(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[record](NewMemory(), "test:records")

	in := []record{{ID: "3", Name: "c"}, {ID: "1", Name: "a"}, {ID: "2", Name: "b"}}
	require.NoError(t, c.ReplaceAll(ctx, in))

	out, err := c.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	require.NoError(t, c.ReplaceAll(ctx, nil))
	out, err = c.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCollection_CorruptValue(t *testing.T) {
	ctx := context.Background()
	sub := NewMemory()
	require.NoError(t, sub.Set(ctx, "test:records", []byte("{not json")))

	_, err := NewCollection[record](sub, "test:records").ReadAll(ctx)
	require.Error(t, err)
}

func TestCollection_NoopSubstrateDegradesSilently(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[record](Noop{}, "test:records")

	require.NoError(t, c.ReplaceAll(ctx, []record{{ID: "1"}}))

	items, err := c.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestNewKeys(t *testing.T) {
	k := NewKeys("")
	assert.Equal(t, "clientdesk:users", k.Users)
	assert.Equal(t, "clientdesk:initialized", k.Initialized)
	assert.Len(t, k.Collections(), 6)

	custom := NewKeys("tenant-a/")
	assert.Equal(t, "tenant-a/notifications", custom.Notifications)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "cassandra"})
	require.Error(t, err)

	sub, err := Open(context.Background(), Config{Backend: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", sub.Name())
}

package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCacheable(t *testing.T) {
	defer goleak.VerifyNone(t)

	delegate := &counting{Container: NewMap("genders", map[any]any{0: "F", 1: "M"})}

	c, err := NewCacheable(delegate, DefaultCacheConfig())
	require.NoError(t, err)

	defer c.Close()

	assert.Equal(t, "genders", c.Namespace())

	got, err := c.Get(context.Background(), []any{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{0: "F", 1: "M"}, got)
	assert.Equal(t, int32(1), delegate.calls.Load())

	got, err = c.Get(context.Background(), []any{0, 1})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{0: "F", 1: "M"}, got)
	assert.Equal(t, int32(1), delegate.calls.Load(), "hits never reach the delegate")

	_, err = c.Get(context.Background(), []any{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int32(2), delegate.calls.Load(), "misses are not cached")
	assert.Equal(t, []any{2}, delegate.batches[1], "only misses are forwarded")

	c.Clear()

	_, err = c.Get(context.Background(), []any{0})
	require.NoError(t, err)
	assert.Equal(t, int32(3), delegate.calls.Load())
}

func TestCacheable_KeysOfDifferentTypes(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, err := NewCacheable(NewMap("ids", map[any]any{1: "int", "1": "string"}), DefaultCacheConfig())
	require.NoError(t, err)

	defer c.Close()

	got, err := c.Get(context.Background(), []any{1, "1"})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{1: "int", "1": "string"}, got)

	got, err = c.Get(context.Background(), []any{"1"})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"1": "string"}, got)
}

func TestCacheable_HoldsMaxEntries(t *testing.T) {
	defer goleak.VerifyNone(t)

	data := make(map[any]any, 100)
	keys := make([]any, 0, 100)

	for i := range 100 {
		data[i] = i * 10
		keys = append(keys, i)
	}

	delegate := &counting{Container: NewMap("numbers", data)}

	c, err := NewCacheable(delegate, CacheConfig{MaxEntries: 1000})
	require.NoError(t, err)

	defer c.Close()

	got, err := c.Get(context.Background(), keys)
	require.NoError(t, err)
	require.Len(t, got, 100)

	got, err = c.Get(context.Background(), keys)
	require.NoError(t, err)
	assert.Len(t, got, 100)
	assert.Equal(t, int32(1), delegate.calls.Load(), "second lookup is served from the cache")
}

func TestCacheable_InvalidConfig(t *testing.T) {
	_, err := NewCacheable(NewMap("ids", nil), CacheConfig{})
	assert.Error(t, err)
}

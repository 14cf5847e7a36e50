package container

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gender struct {
	Code  int
	Label string
}

// counting records every batch it is asked for.
type counting struct {
	Container
	calls   atomic.Int32
	batches [][]any
}

func (c *counting) Get(ctx context.Context, keys []any) (map[any]any, error) {
	c.calls.Add(1)
	c.batches = append(c.batches, keys)

	return c.Container.Get(ctx, keys)
}

func TestMap_Get(t *testing.T) {
	c := NewMap("genders", map[any]any{0: "F", 1: "M"})
	assert.Equal(t, "genders", c.Namespace())

	got, err := c.Get(context.Background(), []any{0, 1, 2, []int{1}, nil})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{0: "F", 1: "M"}, got)

	got, err = c.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTyped_CoercesKeys(t *testing.T) {
	c := FromMap("genders", map[int]string{0: "F", 1: "M"}, WithLogr(testr.New(t)))

	got, err := c.Get(context.Background(), []any{int64(1), "0", "x", 1})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{int64(1): "M", "0": "F", 1: "M"}, got)
}

func TestFromValues(t *testing.T) {
	c := FromValues("genders", func(g gender) int { return g.Code },
		gender{Code: 0, Label: "F"}, gender{Code: 1, Label: "M"})

	got, err := c.Get(context.Background(), []any{1})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{1: gender{Code: 1, Label: "M"}}, got)
}

func TestFromLoader_DedupesAndWrapsErrors(t *testing.T) {
	var seen []string

	c := FromLoader("users", func(_ context.Context, keys []string) (map[string]int, error) {
		seen = keys

		return map[string]int{"a": 1}, nil
	})

	got, err := c.Get(context.Background(), []any{"a", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, map[any]any{"a": 1}, got)

	boom := errors.New("boom")
	failing := FromLoader("users", func(context.Context, []string) (map[string]int, error) {
		return nil, boom
	})

	_, err = failing.Get(context.Background(), []any{"a"})
	assert.ErrorIs(t, err, boom)

	called := false
	empty := FromLoader("users", func(context.Context, []string) (map[string]int, error) {
		called = true

		return nil, nil
	})

	got, err = empty.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called, "no keys, no load")
}

func TestFromFunc(t *testing.T) {
	tests := []struct {
		name    string
		fn      any
		wantErr error
		hasCtx  bool
		hasErr  bool
	}{
		{"plain", func(keys []int) map[int]string { return nil }, nil, false, false},
		{"with error", func(keys []int) (map[int]string, error) { return nil, nil }, nil, false, true},
		{"with context", func(ctx context.Context, keys []int) map[int]string { return nil }, nil, true, false},
		{"full", func(ctx context.Context, keys []int) (map[int]string, error) { return nil, nil }, nil, true, true},
		{"not a function", 42, ErrLoaderIsNotAFunction, false, false},
		{"nil", nil, ErrLoaderIsNotAFunction, false, false},
		{"no slice", func(key int) map[int]string { return nil }, ErrIsNotALoader, false, false},
		{"key mismatch", func(keys []int) map[string]string { return nil }, ErrIsNotALoader, false, false},
		{"not a map", func(keys []int) []string { return nil }, ErrIsNotALoader, false, false},
		{"bad second result", func(keys []int) (map[int]string, bool) { return nil, false }, ErrIsNotALoader, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FromFunc("ns", tt.fn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.hasCtx, f.HasCtx)
			assert.Equal(t, tt.hasErr, f.HasErr)
		})
	}
}

func TestFromFunc_Get(t *testing.T) {
	f, err := FromFunc("products", func(ctx context.Context, ids []string) (map[string]float64, error) {
		out := map[string]float64{}
		for _, id := range ids {
			if id == "p1" {
				out[id] = 9.5
			}
		}

		return out, ctx.Err()
	})
	require.NoError(t, err)

	got, err := f.Get(context.Background(), []any{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"p1": 9.5}, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.Get(ctx, []any{"p1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager(t *testing.T) {
	m := NewManager(WithLogr(testr.New(t)))

	require.NoError(t, m.Register(NewMap("a", nil), NewMap("b", nil)))
	assert.ErrorIs(t, m.Register(NewMap("a", nil)), ErrDuplicateNamespace)
	assert.ErrorIs(t, m.Register(NewMap("c", nil), NewMap("c", nil)), ErrDuplicateNamespace)
	assert.ErrorIs(t, m.Register(NewMap("", nil)), ErrEmptyNamespace)
	assert.Equal(t, []string{"a", "b"}, m.Namespaces())

	replacement := NewMap("a", map[any]any{1: "x"})
	previous, err := m.Replace(replacement)
	require.NoError(t, err)
	assert.NotNil(t, previous)

	c, ok := m.Container("a")
	require.True(t, ok)
	assert.Same(t, replacement, c)

	_, ok = m.Remove("b")
	assert.True(t, ok)

	_, ok = m.Container("b")
	assert.False(t, ok)

	overlay := NewOverlay(m, NewMap("a", nil), NewMap("tmp", nil))
	c, ok = overlay.Container("a")
	require.True(t, ok)
	assert.NotSame(t, replacement, c)

	_, ok = overlay.Container("tmp")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "tmp"}, overlay.Namespaces())
	assert.Empty(t, NewOverlay(nil).Namespaces())

	_, ok = NewOverlay(nil).Container("a")
	assert.False(t, ok)

	require.NoError(t, m.Close())
	assert.Empty(t, m.Namespaces())
}

type closing struct {
	*Map
	err error
}

func (c *closing) Close() error { return c.err }

func TestManager_CloseAggregates(t *testing.T) {
	m := NewManager()
	e1, e2 := errors.New("e1"), errors.New("e2")

	require.NoError(t, m.Register(
		&closing{Map: NewMap("a", nil), err: e1},
		&closing{Map: NewMap("b", nil), err: e2},
		NewMap("c", nil),
	))

	err := m.Close()
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
}

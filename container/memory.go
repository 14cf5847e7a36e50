package container

import (
	"context"
	"fmt"
	"reflect"
)

// Map is a container over constant data keyed by untyped keys.
type Map struct {
	namespace string
	data      map[any]any
}

// NewMap returns a container serving data. The map is read, never modified.
func NewMap(namespace string, data map[any]any) *Map {
	return &Map{namespace: namespace, data: data}
}

// Namespace implements Container.
func (m *Map) Namespace() string { return m.namespace }

// Get implements Container.
func (m *Map) Get(_ context.Context, keys []any) (map[any]any, error) {
	out := make(map[any]any, len(keys))

	for _, k := range keys {
		if !isComparable(k) {
			continue
		}

		if v, ok := m.data[k]; ok {
			out[k] = v
		}
	}

	return out, nil
}

// Typed is a container over a typed batch loader. Requested keys are
// coerced to K before the load; keys that cannot be coerced are misses.
type Typed[K comparable, V any] struct {
	namespace string
	load      func(ctx context.Context, keys []K) (map[K]V, error)
	opts      options
}

// FromLoader returns a container calling load once per Get with the distinct coerced keys.
func FromLoader[K comparable, V any](
	namespace string,
	load func(ctx context.Context, keys []K) (map[K]V, error),
	opts ...Option,
) *Typed[K, V] {
	return &Typed[K, V]{namespace: namespace, load: load, opts: newOptions(opts)}
}

// FromMap returns a container over constant typed data.
func FromMap[K comparable, V any](namespace string, data map[K]V, opts ...Option) *Typed[K, V] {
	return FromLoader(namespace, func(_ context.Context, keys []K) (map[K]V, error) {
		out := make(map[K]V, len(keys))

		for _, k := range keys {
			if v, ok := data[k]; ok {
				out[k] = v
			}
		}

		return out, nil
	}, opts...)
}

// FromValues returns an enum-style container over values keyed by key(value).
// Later values win on duplicate keys.
func FromValues[K comparable, V any](namespace string, key func(V) K, values ...V) *Typed[K, V] {
	data := make(map[K]V, len(values))
	for _, v := range values {
		data[key(v)] = v
	}

	return FromMap(namespace, data)
}

// Namespace implements Container.
func (c *Typed[K, V]) Namespace() string { return c.namespace }

// Get implements Container.
func (c *Typed[K, V]) Get(ctx context.Context, keys []any) (map[any]any, error) {
	out := make(map[any]any, len(keys))

	typed := make([]K, 0, len(keys))
	requested := make(map[K][]any, len(keys))
	keyType := reflect.TypeOf((*K)(nil)).Elem()

	for _, k := range keys {
		if !isComparable(k) {
			continue
		}

		tk, ok := k.(K)
		if !ok {
			v, err := c.opts.converter.To(k, keyType)
			if err != nil {
				c.opts.log.V(1).Info("key not convertible", "namespace", c.namespace, "key", k, "error", err)

				continue
			}

			tk = v.(K)
		}

		if _, seen := requested[tk]; !seen {
			typed = append(typed, tk)
		}

		requested[tk] = append(requested[tk], k)
	}

	if len(typed) == 0 {
		return out, nil
	}

	loaded, err := c.load(ctx, typed)
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", c.namespace, err)
	}

	for tk, v := range loaded {
		for _, k := range requested[tk] {
			out[k] = v
		}
	}

	return out, nil
}

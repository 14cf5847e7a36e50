package container

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrIsNotALoader         = errors.New("provided function is not a recognizable loader")
	ErrLoaderIsNotAFunction = errors.New("provided loader is not a function")
)

var (
	typeContext = reflect.TypeOf((*context.Context)(nil)).Elem()
	typeError   = reflect.TypeOf((*error)(nil)).Elem()
)

// Func is a container over a loader function inspected by reflection.
type Func struct {
	namespace string
	fn        reflect.Value
	keyType   reflect.Type
	HasCtx    bool
	HasErr    bool
	opts      options
}

// FromFunc inspects fn and returns a container calling it once per Get.
//
// Supports signatures:
//   - func(keys []K) map[K]V
//   - func(keys []K) (map[K]V, error)
//   - func(ctx context.Context, keys []K) map[K]V
//   - func(ctx context.Context, keys []K) (map[K]V, error)
func FromFunc(namespace string, fn any, opts ...Option) (*Func, error) {
	fnVal := reflect.ValueOf(fn)
	if fn == nil || fnVal.Kind() != reflect.Func {
		return nil, ErrLoaderIsNotAFunction
	}

	fnType := fnVal.Type()
	f := &Func{namespace: namespace, fn: fnVal, opts: newOptions(opts)}

	in := fnType.NumIn()
	switch {
	case in == 2 && fnType.In(0) == typeContext:
		f.HasCtx = true
	case in != 1:
		return nil, ErrIsNotALoader
	}

	keys := fnType.In(in - 1)
	if keys.Kind() != reflect.Slice {
		return nil, ErrIsNotALoader
	}

	f.keyType = keys.Elem()

	switch fnType.NumOut() {
	default:
		return nil, ErrIsNotALoader
	case 1:
	case 2:
		if fnType.Out(1) != typeError {
			return nil, ErrIsNotALoader
		}

		f.HasErr = true
	}

	out := fnType.Out(0)
	if out.Kind() != reflect.Map || !f.keyType.AssignableTo(out.Key()) {
		return nil, ErrIsNotALoader
	}

	return f, nil
}

// Namespace implements Container.
func (f *Func) Namespace() string { return f.namespace }

// Get implements Container.
func (f *Func) Get(ctx context.Context, keys []any) (map[any]any, error) {
	out := make(map[any]any, len(keys))

	typed := reflect.MakeSlice(reflect.SliceOf(f.keyType), 0, len(keys))
	requested := make(map[any][]any, len(keys))

	for _, k := range keys {
		if !isComparable(k) {
			continue
		}

		tk, err := f.opts.converter.Convert(k, f.keyType)
		if err != nil {
			f.opts.log.V(1).Info("key not convertible", "namespace", f.namespace, "key", k, "error", err)

			continue
		}

		canonical := tk.Interface()
		if _, seen := requested[canonical]; !seen {
			typed = reflect.Append(typed, tk)
		}

		requested[canonical] = append(requested[canonical], k)
	}

	if typed.Len() == 0 {
		return out, nil
	}

	args := []reflect.Value{typed}
	if f.HasCtx {
		args = []reflect.Value{reflect.ValueOf(&ctx).Elem(), typed}
	}

	results := f.fn.Call(args)
	if f.HasErr && !results[1].IsNil() {
		return nil, fmt.Errorf("container %q: %w", f.namespace, results[1].Interface().(error))
	}

	iter := results[0].MapRange()
	for iter.Next() {
		for _, k := range requested[iter.Key().Interface()] {
			out[k] = iter.Value().Interface()
		}
	}

	return out, nil
}

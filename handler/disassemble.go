package handler

import (
	"fmt"
	"reflect"

	"struct-assembler/internal/common"
	"struct-assembler/operation"
	"struct-assembler/property"
)

// Reflect is the disassemble handler reading nested objects as reflect
// values, so struct elements of slices are returned by address and later
// writes reach the owner.
type Reflect struct {
	reader property.ValueReader
}

// NewReflect returns a disassemble handler reading through r.
func NewReflect(r property.ValueReader) *Reflect {
	return &Reflect{reader: r}
}

// Process implements DisassembleHandler with a breadth-first flatten
// seeded with the property values of every target: collections are
// expanded, nils dropped, duplicates kept.
func (h *Reflect) Process(op *operation.DisassembleOperation, targets []any) ([]any, error) {
	queue := make([]reflect.Value, 0, len(targets))

	for _, target := range targets {
		if common.IsNil(target) {
			continue
		}

		v, err := h.reader.ReadValue(target, op.Key)
		if err != nil {
			return nil, fmt.Errorf("disassemble %s: %w", op.Identity(), err)
		}

		queue = append(queue, v)
	}

	var found []any

	for len(queue) > 0 {
		x, ok := unwrap(queue[0])
		queue = queue[1:]

		if !ok {
			continue
		}

		switch x.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < x.Len(); i++ {
				queue = append(queue, x.Index(i))
			}
		case reflect.Struct:
			if x.CanAddr() {
				found = append(found, x.Addr().Interface())
			} else {
				found = append(found, x.Interface())
			}
		default:
			found = append(found, x.Interface())
		}
	}

	return found, nil
}

// unwrap follows interfaces and pointers to collections. It reports false
// for invalid and nil values.
func unwrap(x reflect.Value) (reflect.Value, bool) {
	for {
		switch x.Kind() {
		case reflect.Invalid:
			return x, false
		case reflect.Interface:
			if x.IsNil() {
				return x, false
			}

			x = x.Elem()
		case reflect.Ptr:
			if x.IsNil() {
				return x, false
			}

			switch x.Elem().Kind() {
			case reflect.Slice, reflect.Array, reflect.Interface, reflect.Ptr:
				x = x.Elem()
			default:
				return x, true
			}
		case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return x, !x.IsNil()
		default:
			return x, true
		}
	}
}

package convert

import "reflect"

// DispatcherEnum selects the coercion path for a pair of non-pointer types.
type DispatcherEnum int

const (
	DispatcherUnknown DispatcherEnum = iota
	DispatcherInterface
	DispatcherPrimitive
	DispatcherSlice
	DispatcherMap
	DispatcherStruct
)

// Dispatch picks the coercion path by the shape of dst, then of src.
func Dispatch(src, dst reflect.Type) DispatcherEnum {
	if src.Kind() == reflect.Ptr || dst.Kind() == reflect.Ptr {
		panic("dispatcher is not allowing pointer reflect types")
	}

	switch dst.Kind() {
	case reflect.Interface:
		return DispatcherInterface
	case reflect.Slice, reflect.Array:
		if src.Kind() == reflect.Slice || src.Kind() == reflect.Array {
			return DispatcherSlice
		}

		return DispatcherUnknown
	case reflect.Map:
		if src.Kind() == reflect.Map {
			return DispatcherMap
		}

		return DispatcherUnknown
	}

	if FromReflectType(dst) != 0 {
		if FromReflectType(src) != 0 {
			return DispatcherPrimitive
		}

		return DispatcherUnknown
	}

	if dst.Kind() == reflect.Struct && src.Kind() == reflect.Struct {
		return DispatcherStruct
	}

	return DispatcherUnknown
}

// ptrDepthAndBase returns the pointer depth and the final base type.
func ptrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for base != nil && base.Kind() == reflect.Ptr {
		depth++
		base = base.Elem()
	}

	return depth, base
}

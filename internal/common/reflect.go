package common

import "reflect"

// IsNil reports whether v is nil or a typed nil (pointer, map, slice, func, chan, interface).
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	return isNilValue(reflect.ValueOf(v))
}

func isNilValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	case reflect.Invalid:
		return true
	default:
		return false
	}
}

// IsBlank reports whether v carries no data: nil, or a zero-length
// string, slice, array or map. Pointers are followed.
func IsBlank(v any) bool {
	if IsNil(v) {
		return true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return true
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	default:
		return false
	}
}

// Indirect strips all pointer levels from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}

// LeafType strips pointers, slices and arrays from t until an element type remains.
//   - []*Order -> Order
//   - [][]Item -> Item
//   - *[3]Tag  -> Tag
func LeafType(t reflect.Type) reflect.Type {
	for t != nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array:
			t = t.Elem()
		default:
			return t
		}
	}

	return t
}

// IsCollection reports whether v is a slice or an array, following pointers.
func IsCollection(v any) bool {
	if v == nil {
		return false
	}

	t := Indirect(reflect.TypeOf(v))

	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

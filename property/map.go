package property

import (
	"errors"
	"fmt"
	"reflect"

	"struct-assembler/convert"
	"struct-assembler/internal/common"
)

var errNilMap = errors.New("nil map")

// Map accesses entries of maps with string keys. A missing entry reads as nil.
type Map struct {
	converter *convert.Converter
}

// NewMap returns a map backend writing through c.
func NewMap(c *convert.Converter) *Map {
	return &Map{converter: c}
}

func mapValue(obj any) (reflect.Value, bool) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}

		v = v.Elem()
	}

	return v, v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String
}

// ReadValue implements ValueReader. Map entries are never addressable.
func (m *Map) ReadValue(obj any, name string) (reflect.Value, error) {
	if common.IsNil(obj) {
		return reflect.Value{}, nil
	}

	v, ok := mapValue(obj)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %T is not a string-keyed map", ErrPropertyNotFound, obj)
	}

	e := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
	if e.IsValid() && e.Kind() == reflect.Interface {
		e = e.Elem()
	}

	return e, nil
}

// Read implements Accessor.
func (m *Map) Read(obj any, name string) (any, error) {
	e, err := m.ReadValue(obj, name)
	if err != nil || !e.IsValid() {
		return nil, err
	}

	return e.Interface(), nil
}

// Write implements Accessor.
func (m *Map) Write(obj any, name string, value any) error {
	v, ok := mapValue(obj)
	if !ok {
		if common.IsNil(obj) {
			return fmt.Errorf("write %s: %w", name, errNilMap)
		}

		return fmt.Errorf("%w: %T is not a string-keyed map", ErrPropertyNotFound, obj)
	}

	if v.IsNil() {
		return fmt.Errorf("write %s: %w", name, errNilMap)
	}

	cv, err := m.converter.Convert(value, v.Type().Elem())
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	v.SetMapIndex(reflect.ValueOf(name).Convert(v.Type().Key()), cv)

	return nil
}

// Has implements Inspector; any key may be present in a string-keyed map.
func (m *Map) Has(t reflect.Type, _ string) bool {
	t = common.Indirect(t)

	return t != nil && t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
}

// Names implements Inspector; maps have no static property names.
func (m *Map) Names(reflect.Type) []string {
	return nil
}

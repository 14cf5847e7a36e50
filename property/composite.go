package property

import (
	"fmt"
	"reflect"

	"struct-assembler/convert"
	"struct-assembler/internal/common"
)

// Composite dispatches to the map or struct backend by the object's kind
// and resolves dotted paths segment by segment.
type Composite struct {
	structs *Reflect
	maps    *Map
}

// New returns a Composite whose writes coerce values through c.
func New(c *convert.Converter) *Composite {
	return &Composite{structs: NewReflect(c), maps: NewMap(c)}
}

// Default returns a Composite with a converter allowing every coercion.
func Default() *Composite {
	return New(convert.Default())
}

func (c *Composite) backend(obj any) (Accessor, ValueReader) {
	if _, ok := mapValue(obj); ok {
		return c.maps, c.maps
	}

	return c.structs, c.structs
}

// Read implements Accessor. A path with a collection segment ("Items[].ID")
// reads a []any with one entry per element.
func (c *Composite) Read(obj any, name string) (any, error) {
	if !IsPath(name) {
		a, _ := c.backend(obj)

		return a.Read(obj, name)
	}

	path, err := ParsePath(name)
	if err != nil {
		return nil, err
	}

	values := []any{obj}

	for _, seg := range path.Segments {
		next := make([]any, 0, len(values))

		for _, v := range values {
			if common.IsNil(v) {
				next = append(next, nil)

				continue
			}

			a, _ := c.backend(v)

			x, err := a.Read(v, seg.Name)
			if err != nil {
				return nil, err
			}

			if seg.Each {
				next = append(next, elements(x)...)
			} else {
				next = append(next, x)
			}
		}

		values = next
	}

	if path.Fans() {
		return values, nil
	}

	return values[0], nil
}

// ReadValue implements ValueReader for single-valued names and paths.
func (c *Composite) ReadValue(obj any, name string) (reflect.Value, error) {
	if !IsPath(name) {
		_, r := c.backend(obj)

		return r.ReadValue(obj, name)
	}

	path, err := ParsePath(name)
	if err != nil {
		return reflect.Value{}, err
	}

	if path.Fans() {
		return reflect.Value{}, fmt.Errorf("path %q expands a collection and has no single value", name)
	}

	return c.walk(obj, path.Segments)
}

func (c *Composite) walk(obj any, segments []Segment) (reflect.Value, error) {
	var v reflect.Value

	cur := obj

	for _, seg := range segments {
		if common.IsNil(cur) {
			return reflect.Value{}, nil
		}

		_, r := c.backend(cur)

		var err error

		v, err = r.ReadValue(cur, seg.Name)
		if err != nil || !v.IsValid() {
			return reflect.Value{}, err
		}

		cur = addressed(v)
	}

	return v, nil
}

// addressed returns a pointer to an addressable struct value, so later
// segments can write through it, and the plain value otherwise.
func addressed(v reflect.Value) any {
	if v.Kind() == reflect.Struct && v.CanAddr() {
		return v.Addr().Interface()
	}

	return v.Interface()
}

// Write implements Accessor. For a path every intermediate value must be
// non-nil and reachable by pointer.
func (c *Composite) Write(obj any, name string, value any) error {
	if !IsPath(name) {
		a, _ := c.backend(obj)

		return a.Write(obj, name, value)
	}

	path, err := ParsePath(name)
	if err != nil {
		return err
	}

	if path.Fans() {
		return fmt.Errorf("write %q: cannot write through a collection segment", name)
	}

	last := len(path.Segments) - 1

	parent, err := c.walk(obj, path.Segments[:last])
	if err != nil {
		return err
	}

	if !parent.IsValid() || common.IsNil(parent.Interface()) {
		return fmt.Errorf("write %q: nil intermediate value", name)
	}

	owner := addressed(parent)
	a, _ := c.backend(owner)

	return a.Write(owner, path.Segments[last].Name, value)
}

// Has implements Inspector, following paths through struct field types.
// Maps and interfaces accept any remaining path.
func (c *Composite) Has(t reflect.Type, name string) bool {
	_, ok := c.PropertyType(t, name)

	return ok
}

// PropertyType implements Typer. For a path through a map or an interface
// the type of that map's elements or the interface itself is returned.
func (c *Composite) PropertyType(t reflect.Type, name string) (reflect.Type, bool) {
	segments := []Segment{{Name: name}}

	if IsPath(name) {
		path, err := ParsePath(name)
		if err != nil {
			return nil, false
		}

		segments = path.Segments
	}

	for _, seg := range segments {
		t = common.Indirect(t)

		switch {
		case t == nil:
			return nil, false
		case t.Kind() == reflect.Interface:
			return t, true
		case c.maps.Has(t, seg.Name):
			t = t.Elem()
		case t.Kind() == reflect.Struct:
			f, ok := c.structs.Field(t, seg.Name)
			if !ok {
				return nil, false
			}

			t = f.Type
		default:
			return nil, false
		}

		if seg.Each {
			t = common.Indirect(t)
			if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
				return nil, false
			}

			t = t.Elem()
		}
	}

	return t, true
}

// Names implements Inspector.
func (c *Composite) Names(t reflect.Type) []string {
	return c.structs.Names(t)
}

// elements expands a collection; nil yields nothing and a single value yields itself.
func elements(x any) []any {
	if common.IsNil(x) {
		return nil
	}

	if !common.IsCollection(x) {
		return []any{x}
	}

	v := reflect.Indirect(reflect.ValueOf(x))

	out := make([]any, v.Len())
	for i := range out {
		out[i] = addressed(v.Index(i))
	}

	return out
}

package property

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"struct-assembler/convert"
	"struct-assembler/internal/common"
	"struct-assembler/internal/match"
)

// TagName is the struct tag that renames a property.
const TagName = "prop"

var errNotAddressable = errors.New("object is not addressable, pass a pointer")

// Reflect accesses exported struct fields. Field tables are built once per type.
type Reflect struct {
	converter *convert.Converter
	tables    sync.Map // reflect.Type -> *fieldTable
}

// NewReflect returns a struct field backend writing through c.
func NewReflect(c *convert.Converter) *Reflect {
	return &Reflect{converter: c}
}

type fieldTable struct {
	byName   map[string]reflect.StructField
	byTag    map[string]reflect.StructField
	byJSON   map[string]reflect.StructField
	byFolded map[string]reflect.StructField
	names    []string
}

func (ft *fieldTable) lookup(name string) (reflect.StructField, bool) {
	if f, ok := ft.byName[name]; ok {
		return f, true
	}

	if f, ok := ft.byTag[name]; ok {
		return f, true
	}

	if f, ok := ft.byJSON[name]; ok {
		return f, true
	}

	f, ok := ft.byFolded[match.NormalizeIdent(name)]

	return f, ok
}

func (r *Reflect) table(t reflect.Type) *fieldTable {
	if cached, ok := r.tables.Load(t); ok {
		return cached.(*fieldTable)
	}

	ft := &fieldTable{
		byName:   map[string]reflect.StructField{},
		byTag:    map[string]reflect.StructField{},
		byJSON:   map[string]reflect.StructField{},
		byFolded: map[string]reflect.StructField{},
	}

	// shallower fields come first, so the first registration wins
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}

		putOnce(ft.byName, f.Name, f)
		ft.names = append(ft.names, f.Name)

		if tag := f.Tag.Get(TagName); tag != "" && tag != "-" {
			putOnce(ft.byTag, tag, f)
			ft.names = append(ft.names, tag)
		}

		if tag := jsonTagName(f); tag != "" {
			putOnce(ft.byJSON, tag, f)
		}

		putOnce(ft.byFolded, match.NormalizeIdent(f.Name), f)
	}

	actual, _ := r.tables.LoadOrStore(t, ft)

	return actual.(*fieldTable)
}

func putOnce(m map[string]reflect.StructField, key string, f reflect.StructField) {
	if _, ok := m[key]; !ok {
		m[key] = f
	}
}

func jsonTagName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}

	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}

	return tag
}

// Field returns the struct field name resolves to on t.
func (r *Reflect) Field(t reflect.Type, name string) (reflect.StructField, bool) {
	t = common.Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}

	return r.table(t).lookup(name)
}

// Has implements Inspector.
func (r *Reflect) Has(t reflect.Type, name string) bool {
	_, ok := r.Field(t, name)

	return ok
}

// Names implements Inspector.
func (r *Reflect) Names(t reflect.Type) []string {
	t = common.Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	return r.table(t).names
}

// ReadValue implements ValueReader. A nil owner, or a nil embedded pointer
// on the way to a promoted field, yields an invalid Value and no error.
func (r *Reflect) ReadValue(obj any, name string) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, nil
		}

		v = v.Elem()
	}

	if !v.IsValid() {
		return reflect.Value{}, nil
	}

	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s has no properties", ErrPropertyNotFound, v.Type())
	}

	f, ok := r.table(v.Type()).lookup(name)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, v.Type(), name)
	}

	fv, _ := fieldByIndex(v, f.Index, false)

	return fv, nil
}

// Read implements Accessor.
func (r *Reflect) Read(obj any, name string) (any, error) {
	fv, err := r.ReadValue(obj, name)
	if err != nil || !fv.IsValid() {
		return nil, err
	}

	return fv.Interface(), nil
}

// Write implements Accessor. obj must be a non-nil pointer to a struct.
// Nil embedded pointers on the way to a promoted field are allocated.
func (r *Reflect) Write(obj any, name string, value any) error {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("write %s on %T: %w", name, obj, errNotAddressable)
	}

	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("write %s on %T: %w", name, obj, errNotAddressable)
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s has no properties", ErrPropertyNotFound, v.Type())
	}

	f, ok := r.table(v.Type()).lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, v.Type(), name)
	}

	fv, ok := fieldByIndex(v, f.Index, true)
	if !ok || !fv.CanSet() {
		return fmt.Errorf("write %s.%s: %w", v.Type(), f.Name, errNotAddressable)
	}

	cv, err := r.converter.Convert(value, fv.Type())
	if err != nil {
		return fmt.Errorf("write %s.%s: %w", v.Type(), f.Name, err)
	}

	fv.Set(cv)

	return nil
}

// fieldByIndex walks index from v, allocating nil embedded pointers when alloc is set.
func fieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !alloc || !v.CanSet() {
					return reflect.Value{}, false
				}

				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v, true
}

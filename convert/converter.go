package convert

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

// ErrNotConvertible is returned when a value cannot be coerced to the requested type.
var ErrNotConvertible = errors.New("value not convertible")

// Converter coerces runtime values to a target type. It is safe for concurrent use.
type Converter struct {
	allowed CategoryEnum
}

// New returns a Converter applying only the allowed coercion categories.
// Identity, assignable and pointer coercions are always allowed.
func New(allowed CategoryEnum) *Converter {
	return &Converter{allowed: allowed}
}

// Default returns a Converter allowing every category.
func Default() *Converter {
	return New(CategoryAll)
}

// Allowed returns the categories c applies.
func (c *Converter) Allowed() CategoryEnum {
	return c.allowed
}

// To coerces value to type to and returns it as an interface value.
func (c *Converter) To(value any, to reflect.Type) (any, error) {
	v, err := c.Convert(value, to)
	if err != nil {
		return nil, err
	}

	return v.Interface(), nil
}

// Convert coerces value to type to. A nil value yields the zero value of to.
func (c *Converter) Convert(value any, to reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(to), nil
	}

	return c.convertValue(reflect.ValueOf(value), to)
}

func (c *Converter) convertValue(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(to), nil
	}

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Zero(to), nil
		}

		v = v.Elem()
	}

	if v.Type() == to || v.Type().AssignableTo(to) {
		return v, nil
	}

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Zero(to), nil
		}

		if to.Kind() != reflect.Ptr {
			return c.convertValue(v.Elem(), to)
		}

		return c.wrap(v.Elem(), to)
	}

	if to.Kind() == reflect.Ptr {
		return c.wrap(v, to)
	}

	switch Dispatch(v.Type(), to) {
	case DispatcherPrimitive:
		return c.primitive(v, to)
	case DispatcherSlice:
		return c.slice(v, to)
	case DispatcherMap:
		return c.mapping(v, to)
	case DispatcherStruct:
		if v.Type().ConvertibleTo(to) {
			return v.Convert(to), nil
		}
	}

	return reflect.Value{}, notConvertible(v.Type(), to)
}

// wrap converts v to the element type of pointer type to and returns a pointer to it.
func (c *Converter) wrap(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	inner, err := c.convertValue(v, to.Elem())
	if err != nil {
		return reflect.Value{}, err
	}

	p := reflect.New(to.Elem())
	p.Elem().Set(inner)

	return p, nil
}

func (c *Converter) primitive(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	fromKind, toKind := BaseKind(v.Type()), BaseKind(to)

	category, ok := Classify(fromKind, toKind)
	if !ok {
		return reflect.Value{}, notConvertible(v.Type(), to)
	}

	if fromKind == KindString && toKind == KindString {
		category = CategoryEnumString
	}

	if !c.allowed.Has(category) {
		return reflect.Value{}, fmt.Errorf("%w: %s -> %s not allowed", ErrNotConvertible, v.Type(), to)
	}

	// named scalars are handed to cast as their underlying basic type
	if FromReflectType(v.Type()) == KindPrimitiveEnum {
		v = v.Convert(basicTypes[v.Kind()])
	}

	out, err := castTo(v.Interface(), fromKind, toKind)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %s -> %s: %v", ErrNotConvertible, v.Type(), to, err)
	}

	return reflect.ValueOf(out).Convert(to), nil
}

func castTo(v any, from, to KindEnum) (any, error) {
	switch {
	case from.IsFloat() && to == KindDuration:
		f, err := cast.ToFloat64E(v)

		return time.Duration(f * float64(time.Second)), err
	case from == KindDuration && to.IsFloat():
		return cast.ToFloat64E(v.(time.Duration).Seconds())
	case from == KindTime && to.IsInteger():
		return castTo(v.(time.Time).Unix(), KindInt64, to)
	case from == KindTime && to == KindString:
		return v.(time.Time).Format(time.RFC3339Nano), nil
	case from == KindDuration && to.IsInteger():
		return castTo(int64(v.(time.Duration)), KindInt64, to)
	}

	switch to {
	case KindInt:
		return cast.ToIntE(v)
	case KindInt8:
		return cast.ToInt8E(v)
	case KindInt16:
		return cast.ToInt16E(v)
	case KindInt32:
		return cast.ToInt32E(v)
	case KindInt64:
		return cast.ToInt64E(v)
	case KindUint:
		return cast.ToUintE(v)
	case KindUint8:
		return cast.ToUint8E(v)
	case KindUint16:
		return cast.ToUint16E(v)
	case KindUint32:
		return cast.ToUint32E(v)
	case KindUint64:
		return cast.ToUint64E(v)
	case KindFloat32:
		return cast.ToFloat32E(v)
	case KindFloat64:
		return cast.ToFloat64E(v)
	case KindBool:
		return cast.ToBoolE(v)
	case KindString:
		return cast.ToStringE(v)
	case KindTime:
		return cast.ToTimeE(v)
	case KindDuration:
		return cast.ToDurationE(v)
	default:
		return nil, fmt.Errorf("unsupported kind %s", to)
	}
}

func (c *Converter) slice(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.Zero(to), nil
	}

	n := v.Len()

	var out reflect.Value

	if to.Kind() == reflect.Array {
		category := CategorySafeArray
		if n > to.Len() {
			category = CategoryUnsafeArray
		}

		if !c.allowed.Has(category) {
			return reflect.Value{}, fmt.Errorf("%w: %d elements into %s", ErrNotConvertible, n, to)
		}

		n = min(n, to.Len())
		out = reflect.New(to).Elem()
	} else {
		out = reflect.MakeSlice(to, n, n)
	}

	for i := range n {
		elem, err := c.convertValue(v.Index(i), to.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}

		out.Index(i).Set(elem)
	}

	return out, nil
}

func (c *Converter) mapping(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	if v.IsNil() {
		return reflect.Zero(to), nil
	}

	out := reflect.MakeMapWithSize(to, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		key, err := c.convertValue(iter.Key(), to.Key())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key(), err)
		}

		val, err := c.convertValue(iter.Value(), to.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("value of %v: %w", iter.Key(), err)
		}

		out.SetMapIndex(key, val)
	}

	return out, nil
}

func notConvertible(from, to reflect.Type) error {
	fromDepth, fromBase := ptrDepthAndBase(from)
	toDepth, toBase := ptrDepthAndBase(to)

	if fromDepth == 0 && toDepth == 0 {
		return fmt.Errorf("%w: %s -> %s", ErrNotConvertible, from, to)
	}

	return fmt.Errorf("%w: %s -> %s (base %s -> %s)", ErrNotConvertible, from, to, fromBase, toBase)
}

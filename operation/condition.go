package operation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"struct-assembler/internal/common"
)

// PropertyReader reads a named property of an object.
type PropertyReader interface {
	Read(obj any, name string) (any, error)
}

// Condition decides whether an operation applies to a single target.
type Condition interface {
	Test(target any, props PropertyReader) (bool, error)
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(target any, props PropertyReader) (bool, error)

// Test calls f.
func (f ConditionFunc) Test(target any, props PropertyReader) (bool, error) {
	return f(target, props)
}

// And accepts a target when every condition does.
func And(cs ...Condition) Condition {
	return ConditionFunc(func(target any, props PropertyReader) (bool, error) {
		for _, c := range cs {
			ok, err := c.Test(target, props)
			if err != nil || !ok {
				return false, err
			}
		}

		return true, nil
	})
}

// Or accepts a target when any condition does.
func Or(cs ...Condition) Condition {
	return ConditionFunc(func(target any, props PropertyReader) (bool, error) {
		for _, c := range cs {
			ok, err := c.Test(target, props)
			if err != nil {
				return false, err
			}

			if ok {
				return true, nil
			}
		}

		return false, nil
	})
}

// Not negates c.
func Not(c Condition) Condition {
	return ConditionFunc(func(target any, props PropertyReader) (bool, error) {
		ok, err := c.Test(target, props)

		return !ok && err == nil, err
	})
}

// PropertyNotNil accepts targets whose property is not nil.
func PropertyNotNil(name string) Condition {
	return ConditionFunc(func(target any, props PropertyReader) (bool, error) {
		v, err := props.Read(target, name)
		if err != nil {
			return false, err
		}

		return !common.IsNil(v), nil
	})
}

// PropertyNotEmpty accepts targets whose property is neither nil nor an empty string, slice or map.
func PropertyNotEmpty(name string) Condition {
	return ConditionFunc(func(target any, props PropertyReader) (bool, error) {
		v, err := props.Read(target, name)
		if err != nil {
			return false, err
		}

		return !common.IsBlank(v), nil
	})
}

// PropertyEquals accepts targets whose property renders as value.
func PropertyEquals(name, value string) Condition {
	return ConditionFunc(func(target any, props PropertyReader) (bool, error) {
		v, err := props.Read(target, name)
		if err != nil {
			return false, err
		}

		if common.IsNil(v) {
			return false, nil
		}

		s, err := cast.ToStringE(v)
		if err != nil {
			return false, nil
		}

		return s == value, nil
	})
}

// TargetTypeIs accepts targets of type t or *t.
func TargetTypeIs(t reflect.Type) Condition {
	t = common.Indirect(t)

	return ConditionFunc(func(target any, _ PropertyReader) (bool, error) {
		if target == nil {
			return false, nil
		}

		return common.Indirect(reflect.TypeOf(target)) == t, nil
	})
}

var errEmptyCondition = errors.New("empty condition")

// ParseCondition parses a condition expression:
//   - notnil:Field
//   - notempty:Field
//   - eq:Field=value
//   - !term negates a term
//   - a&b requires both, a|b requires either; & binds tighter than |
func ParseCondition(expr string) (Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, Configf("", "", "condition: %v", errEmptyCondition)
	}

	var alternatives []Condition

	for _, alt := range strings.Split(expr, "|") {
		var terms []Condition

		for _, term := range strings.Split(alt, "&") {
			c, err := parseTerm(strings.TrimSpace(term))
			if err != nil {
				return nil, err
			}

			terms = append(terms, c)
		}

		if common.IsSingle(terms) {
			alternatives = append(alternatives, terms[0])
		} else {
			alternatives = append(alternatives, And(terms...))
		}
	}

	if common.IsSingle(alternatives) {
		return alternatives[0], nil
	}

	return Or(alternatives...), nil
}

func parseTerm(term string) (Condition, error) {
	if term == "" {
		return nil, Configf("", "", "condition: %v", errEmptyCondition)
	}

	if strings.HasPrefix(term, "!") {
		c, err := parseTerm(strings.TrimSpace(term[1:]))
		if err != nil {
			return nil, err
		}

		return Not(c), nil
	}

	kind, arg := common.Unpack2(strings.SplitN(term, ":", 2))
	if arg == "" {
		return nil, Configf("", "", "condition %q has no property", term)
	}

	switch kind {
	case "notnil":
		return PropertyNotNil(arg), nil
	case "notempty":
		return PropertyNotEmpty(arg), nil
	case "eq":
		name, value := common.Unpack2(strings.SplitN(arg, "=", 2))
		if !strings.Contains(arg, "=") {
			return nil, Configf("", name, "condition %q has no value", term)
		}

		return PropertyEquals(name, value), nil
	default:
		return nil, Configf("", "", "unknown condition %q", kind)
	}
}

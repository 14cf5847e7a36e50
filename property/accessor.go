package property

import (
	"errors"
	"reflect"
)

// ErrPropertyNotFound is returned when an object has no property with the requested name.
var ErrPropertyNotFound = errors.New("property not found")

// Accessor reads and writes named properties.
type Accessor interface {
	Read(obj any, name string) (any, error)
	Write(obj any, name string, value any) error
}

// Inspector answers questions about the properties of a type without an instance.
type Inspector interface {
	// Has reports whether values of t may carry the property.
	Has(t reflect.Type, name string) bool
	// Names lists the property names of t, for suggestions.
	Names(t reflect.Type) []string
}

// ValueReader reads a property as a reflect.Value, keeping it addressable
// when the owner is reached through a pointer.
type ValueReader interface {
	ReadValue(obj any, name string) (reflect.Value, error)
}

// Typer reports the static type of a property.
type Typer interface {
	PropertyType(t reflect.Type, name string) (reflect.Type, bool)
}

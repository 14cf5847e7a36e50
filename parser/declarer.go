package parser

import (
	"reflect"
)

// Declarer is implemented by types that declare their operations in code.
// DeclareOperations is called on a zero value, or a pointer to one for
// pointer receivers, and must not depend on its state.
type Declarer interface {
	DeclareOperations(scope string) *Declarations
}

var typeDeclarer = reflect.TypeOf((*Declarer)(nil)).Elem()

// DeclarerResolver asks types implementing Declarer for their operations.
type DeclarerResolver struct{}

// Resolve implements Resolver.
func (DeclarerResolver) Resolve(t reflect.Type, scope string) (*Declarations, error) {
	var d Declarer

	switch {
	case t.Implements(typeDeclarer):
		d = reflect.Zero(t).Interface().(Declarer)
	case reflect.PointerTo(t).Implements(typeDeclarer):
		d = reflect.New(t).Interface().(Declarer)
	default:
		return nil, nil
	}

	return d.DeclareOperations(scope), nil
}

package parser

import (
	"reflect"

	"struct-assembler/operation"
)

// Resolver extracts operation declarations for one level of a type hierarchy.
type Resolver interface {
	Resolve(t reflect.Type, scope string) (*Declarations, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(t reflect.Type, scope string) (*Declarations, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(t reflect.Type, scope string) (*Declarations, error) {
	return f(t, scope)
}

// Declarations are the operations a resolver found on one type.
// The parser fills in owners and defaults and validates them.
type Declarations struct {
	Assembles    []*operation.AssembleOperation
	Disassembles []DisassembleDecl
}

// IsEmpty reports whether nothing was declared.
func (d *Declarations) IsEmpty() bool {
	return d == nil || (len(d.Assembles) == 0 && len(d.Disassembles) == 0)
}

// DisassembleDecl declares a property holding nested objects.
type DisassembleDecl struct {
	ID      string
	Key     string
	Handler string
	Groups  []string
	Sort    int
	// Type fixes the nested type; nil infers it from the property's element type.
	Type reflect.Type
	// Dynamic resolves the nested model from each nested object's runtime type.
	Dynamic bool
}

// inScope reports whether a declaration limited to scopes applies under scope.
// No limit applies everywhere.
func inScope(scopes []string, scope string) bool {
	if len(scopes) == 0 {
		return true
	}

	for _, s := range scopes {
		if s == scope {
			return true
		}
	}

	return false
}

package operation

import (
	"fmt"
	"reflect"

	"struct-assembler/internal/common"
)

// ModelResolver resolves the operation model of a type.
type ModelResolver interface {
	Parse(t reflect.Type) (*BeanOperations, error)
}

// DisassembleOperation names a property holding nested objects that are
// processed recursively with their own model.
type DisassembleOperation struct {
	// ID is the identity; the key is used when empty.
	ID string
	// Key names the property holding the nested object, collection, or array.
	Key     string
	Owner   reflect.Type
	Handler string
	Groups  []string
	Sort    int
	// NestedType is the struct type of a static nested model, nil when dynamic.
	NestedType reflect.Type

	static   *BeanOperations
	resolver ModelResolver
}

// Identity returns ID, or Key when ID is empty.
func (op *DisassembleOperation) Identity() string {
	if op.ID != "" {
		return op.ID
	}

	return op.Key
}

// SetStatic fixes the nested model at parse time.
func (op *DisassembleOperation) SetStatic(m *BeanOperations) {
	op.static = m
	op.resolver = nil
}

// SetResolver makes the nested model depend on each nested object's runtime type.
func (op *DisassembleOperation) SetResolver(r ModelResolver) {
	op.static = nil
	op.resolver = r
}

// Static returns the nested model fixed at parse time, or nil for a dynamic operation.
func (op *DisassembleOperation) Static() *BeanOperations {
	return op.static
}

// IsDynamic reports whether the nested model is resolved per object.
func (op *DisassembleOperation) IsDynamic() bool {
	return op.static == nil
}

// Resolve returns the model to apply to obj.
func (op *DisassembleOperation) Resolve(obj any) (*BeanOperations, error) {
	if op.static != nil {
		return op.static, nil
	}

	if op.resolver == nil {
		return nil, Configf(typeName(op.Owner), op.Key, "disassemble operation has neither a nested model nor a resolver")
	}

	if obj == nil {
		return nil, nil
	}

	return op.resolver.Parse(common.Indirect(reflect.TypeOf(obj)))
}

func (op *DisassembleOperation) String() string {
	mode := "dynamic"
	if op.static != nil {
		mode = typeName(op.static.Type)
	}

	return fmt.Sprintf("disassemble(%s on %s -> %s)", op.Identity(), typeName(op.Owner), mode)
}

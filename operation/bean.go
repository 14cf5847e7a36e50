package operation

import (
	"fmt"
	"reflect"
	"sort"
	"sync/atomic"
)

// BeanOperations is the operation model of one type under one scope.
// It is built inactive; the parser activates it once the whole model graph
// it belongs to resolved successfully, and never mutates it afterwards.
type BeanOperations struct {
	Type  reflect.Type
	Scope string

	assembles    []*AssembleOperation
	disassembles []*DisassembleOperation
	active       atomic.Bool
}

// NewBeanOperations returns an empty, inactive model for t.
func NewBeanOperations(t reflect.Type, scope string) *BeanOperations {
	return &BeanOperations{Type: t, Scope: scope}
}

// PutAssemble adds op, replacing an operation with the same identity.
func (b *BeanOperations) PutAssemble(op *AssembleOperation) {
	id := op.Identity()
	for i, existing := range b.assembles {
		if existing.Identity() == id {
			b.assembles = append(b.assembles[:i], b.assembles[i+1:]...)

			break
		}
	}

	b.assembles = append(b.assembles, op)
}

// PutDisassemble adds op, replacing an operation with the same identity.
func (b *BeanOperations) PutDisassemble(op *DisassembleOperation) {
	id := op.Identity()
	for i, existing := range b.disassembles {
		if existing.Identity() == id {
			b.disassembles = append(b.disassembles[:i], b.disassembles[i+1:]...)

			break
		}
	}

	b.disassembles = append(b.disassembles, op)
}

// Assembles returns the assemble operations in sort order. The slice must not be modified.
func (b *BeanOperations) Assembles() []*AssembleOperation {
	return b.assembles
}

// Disassembles returns the disassemble operations in sort order. The slice must not be modified.
func (b *BeanOperations) Disassembles() []*DisassembleOperation {
	return b.disassembles
}

// Sort orders both operation lists by ascending sort value, keeping
// insertion order among equal values.
func (b *BeanOperations) Sort() {
	sort.SliceStable(b.assembles, func(i, j int) bool {
		return b.assembles[i].Sort < b.assembles[j].Sort
	})
	sort.SliceStable(b.disassembles, func(i, j int) bool {
		return b.disassembles[i].Sort < b.disassembles[j].Sort
	})
}

// IsEmpty reports whether the model has no operations at all.
func (b *BeanOperations) IsEmpty() bool {
	return b == nil || (len(b.assembles) == 0 && len(b.disassembles) == 0)
}

// Active reports whether the model finished parsing.
func (b *BeanOperations) Active() bool {
	return b != nil && b.active.Load()
}

// Activate marks the model as fully parsed.
func (b *BeanOperations) Activate() {
	b.active.Store(true)
}

func (b *BeanOperations) String() string {
	scope := ""
	if b.Scope != "" {
		scope = "@" + b.Scope
	}

	return fmt.Sprintf("%s%s[%d assemble, %d disassemble]",
		typeName(b.Type), scope, len(b.assembles), len(b.disassembles))
}

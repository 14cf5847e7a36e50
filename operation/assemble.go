package operation

import (
	"fmt"
	"reflect"
)

// AssembleOperation fills properties of a target from the value a container
// associates with the target's key.
type AssembleOperation struct {
	// ID is the identity; Identity derives one from key, container and handler when empty.
	ID string
	// Key names the property holding the lookup key. Empty means the target itself is the key.
	Key string
	// KeyType, when set, is the type keys are coerced to before the lookup.
	KeyType reflect.Type
	// Container is the namespace of the data source. Empty means the target
	// is its own source (self introspection).
	Container string
	// Handler selects the cardinality strategy.
	Handler string
	// Mappings are applied in order for every target that found a source.
	Mappings []PropertyMapping
	// MappingStrategy names how a mapped value is written; empty means StrategyNotNull.
	MappingStrategy string
	Groups          []string
	Sort            int
	// Condition, when set, excludes targets it rejects from the batch.
	Condition Condition
	// Owner is the type the operation was declared for.
	Owner reflect.Type
}

// Identity returns ID, or "key@container#handler" when ID is empty.
func (op *AssembleOperation) Identity() string {
	if op.ID != "" {
		return op.ID
	}

	return fmt.Sprintf("%s@%s#%s", op.Key, op.Container, op.Handler)
}

// Validate checks the invariants every assemble operation must hold.
func (op *AssembleOperation) Validate() error {
	owner := typeName(op.Owner)

	if len(op.Mappings) == 0 {
		return Configf(owner, op.Key, "assemble operation %q has no property mappings", op.Identity())
	}

	if op.Handler == "" {
		return Configf(owner, op.Key, "assemble operation %q has no handler", op.Identity())
	}

	for _, m := range op.Mappings {
		if m.Reference == "" {
			return Configf(owner, op.Key, "assemble operation %q maps %q to no property", op.Identity(), m.Source)
		}
	}

	return nil
}

// Strategy returns MappingStrategy or the default strategy name.
func (op *AssembleOperation) Strategy() string {
	if op.MappingStrategy == "" {
		return StrategyNotNull
	}

	return op.MappingStrategy
}

func (op *AssembleOperation) String() string {
	return fmt.Sprintf("assemble(%s on %s, %d mappings)", op.Identity(), typeName(op.Owner), len(op.Mappings))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}

	return t.String()
}

// Package operation defines the metadata model the engine runs on: which
// properties of a type are filled from which container (assemble operations),
// which properties hold nested objects to process recursively (disassemble
// operations), and the per-type, per-scope aggregate of both (BeanOperations).
//
// # Identity
//
// Every operation has an identity. Putting an operation into a model whose
// hierarchy already declared the same identity replaces the earlier one:
// the old entry is removed and the new one is appended, so declarations on a
// more specific type win over those inherited from embedded types.
//
// # Errors
//
// Invalid or unresolvable metadata is reported with *ConfigError, which
// matches ErrConfiguration under errors.Is.
package operation

// Package parser turns a type into its operation model.
//
// # Resolvers
//
// Metadata comes from pluggable Resolvers, consulted in order at every level
// of the type's hierarchy. The hierarchy is the type's embedded structs, most
// general first, then the type itself, so declarations on the type replace
// same-identity declarations inherited from an embedded struct.
//
//   - TagResolver reads `assemble` and `disassemble` struct tags
//   - FileResolver reads YAML or TOML descriptor files
//   - DeclarerResolver asks types implementing Declarer
//
// # Caching
//
// Parse computes each (type, scope) model at most once; concurrent callers
// wait for the first. Self-referential and mutually recursive types resolve
// through forward references to models still being built. A model becomes
// visible only when the whole resolution it belongs to succeeded, so a
// failure leaves nothing behind and a retry starts clean.
package parser

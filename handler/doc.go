// Package handler holds the strategies the executor runs per operation.
//
// Assemble handlers collect the keys of a batch of targets, look them up
// with one container call and write the mapped source values back. The
// cardinality decides how a key value becomes lookup keys and how the
// results become a target's source:
//
//   - one-to-one: the key value is the lookup key, the hit is the source
//   - one-to-many: as one-to-one, but the hit is usually a collection
//   - many-to-many: the key value is split into atomic keys and the hits
//     are merged into a list in key order
//
// The disassemble handler reads a property holding nested objects and
// flattens it, whatever the nesting of slices and arrays, into the objects
// to process next.
package handler

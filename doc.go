// Package assembler fills batches of objects with related data looked up
// in batch containers.
//
// Types declare what to fill with struct tags, descriptor files, or code:
//
//	type Order struct {
//		CustomerID   int64 `assemble:"container=customers props=FullName:CustomerName"`
//		CustomerName string
//		Items        []OrderItem `disassemble:""`
//	}
//
// An Assembler wires the parser, the container registry, the handlers and
// the executor from a Config. Fill looks up every key of a batch with one
// container call per operation, writes the mapped values in place and
// recurses into the nested objects named by disassemble operations.
//
// An Operator names invocations (groups, scope, temporary containers) so
// callers can run them by name.
package assembler

// Package executor runs operation models over batches of objects.
//
// One Execute call resolves the model of every runtime type in the batch,
// checks that every container and handler the reachable models need is
// available, and then, level by level, runs the assemble operations,
// discovers nested objects through the disassemble operations and
// processes those the same way. Writes happen in place.
//
// Execution is synchronous. Container calls never overlap within one call,
// whatever the policy; a cyclic object graph is not detected and recurses
// until the stack runs out.
package executor

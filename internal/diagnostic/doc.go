// Package diagnostic collects configuration problems found while parsing
// operation metadata, loading descriptor files, or validating a model graph
// before execution.
//
// Key capabilities:
//   - Error and warning diagnostics tagged with a code, type and property
//   - Aggregation of every error into a single error value that still
//     matches the individual causes with errors.Is / errors.As
package diagnostic

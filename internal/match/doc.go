// Package match provides identifier normalization and edit-distance helpers
// used to resolve property names and to suggest alternatives for unknown ones.
//
// Key functions:
//   - NormalizeIdent: folds identifiers so "customer_id", "CustomerID" and
//     "customerId" compare equal
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names by similarity to an unknown one
package match

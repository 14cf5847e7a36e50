// Package property reads and writes named properties of runtime objects.
//
// The engine only talks to the Accessor and Inspector interfaces; the
// backends here are composable:
//   - Reflect: exported struct fields, including fields promoted from
//     embedded structs. A name resolves by exact field name, then the
//     `prop` tag, then the `json` tag, then the normalized identifier
//     (so "customer_id" finds CustomerID).
//   - Map: string-keyed maps.
//   - Composite: dispatches by the object's kind and follows dotted paths
//     ("Customer.Address.City", "Items[].ProductID").
//
// Writes coerce the value to the property's type with a convert.Converter.
package property

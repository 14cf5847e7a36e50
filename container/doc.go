// Package container provides the data sources assemble operations look up
// values in.
//
// A Container is a namespaced batch lookup: given a set of keys it returns
// the values it knows, keyed by the requested keys. Misses are simply absent.
// Containers here cover in-memory data (NewMap, FromMap, FromValues), typed
// and reflective loader functions (FromLoader, FromFunc), SQL tables (SQL),
// and a caching wrapper for any of them (Cacheable).
//
// The Manager is the registry the engine resolves namespaces against;
// an Overlay layers per-call containers over it.
package container

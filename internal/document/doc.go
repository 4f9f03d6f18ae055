// Package document owns the parsed HTML tree that every other engine
// component operates on.
//
// A Document binds a tree to its origin address and to a per-instance
// anchor cache. Documents are immutable after creation: reloading a
// page produces a new Document, and anything keyed to the old one
// (cached anchor node sets in particular) is discarded with it.
//
// The package also provides the low-level node helpers shared across
// the engine: element iteration, descendant text collection, inner and
// outer markup rendering, and positional path addressing that survives
// a re-parse of identical markup.
package document

// Package memory contains concrete MemoryStore implementations. The store
// interface and MemoryContent type reside in the core package; depend on
// core.MemoryStore in your code and select an implementation at wiring time.
//
// ListStore is the reference implementation: an insertion-ordered collection
// scored with a textual subsequence heuristic. CachedStore decorates any
// store with a ristretto query cache. Package memory/chromem provides an
// embeddings-backed store on top of a local vector database.
//
// Rationale: keeping the contract in core lets pluggable backends (vector
// databases, embeddings indexes) be added without dependency cycles.
package memory

package core

import (
	"context"
	"fmt"
	"time"
)

// MimeType categorizes the payload of a MemoryContent entry.
type MimeType string

// Supported memory content MIME types.
const (
	MimeTypeText     MimeType = "text/plain"
	MimeTypeMarkdown MimeType = "text/markdown"
	MimeTypeJSON     MimeType = "application/json"
	MimeTypeBinary   MimeType = "application/octet-stream"
)

// MemoryContent is a single fact held by a MemoryStore. Entries are immutable
// once stored; Query returns scored copies and never mutates the originals.
type MemoryContent struct {
	Content  string         `json:"content"`
	MimeType MimeType       `json:"mime_type"`
	Metadata map[string]any `json:"metadata,omitempty"`

	// Timestamp records when the entry was stored. Zero means unset.
	Timestamp time.Time `json:"timestamp,omitempty"`

	// Source identifies where the entry came from (a store name, a URL, ...).
	Source string `json:"source,omitempty"`

	// Score is the query-relative relevance in [0,1], populated only on
	// retrieval. It must never be persisted.
	Score float64 `json:"score,omitempty"`
}

// MemoryQueryOptions configures a MemoryStore query.
type MemoryQueryOptions struct {
	// Limit caps the number of returned results. Zero selects the
	// implementation-defined default.
	Limit int
}

// MemoryStore is the capability interface retrieval backends implement to
// plug into the turn engine. Implementations may back Query with embeddings,
// keyword heuristics or any similarity measure, as long as the ranking is
// deterministic for fixed inputs and monotonic in textual overlap.
//
// A store shared across agents must itself be safe for concurrent Add/Query.
type MemoryStore interface {
	// Add appends an entry. It fails only on malformed entries
	// (missing content), reported as *InvalidEntryError.
	Add(ctx context.Context, content MemoryContent) error

	// Query returns entries relevant to text, highest score first, ties
	// broken by insertion order. Backend failures are reported as
	// *MemoryUnavailableError; the engine treats those as non-fatal.
	Query(ctx context.Context, text string, optFns ...func(o *MemoryQueryOptions)) ([]MemoryContent, error)

	// Transform renders query results into context messages and appends
	// them to buf, tagged as memory-derived. Called with no results it is
	// a no-op.
	Transform(buf *Buffer, results []MemoryContent) error

	// Clear empties the store. Idempotent.
	Clear(ctx context.Context) error

	// Cleanup releases external resources (connections, file handles).
	// Idempotent; must not fail on repeated calls.
	Cleanup(ctx context.Context) error
}

// InvalidEntryError reports a malformed MemoryContent passed to Add.
type InvalidEntryError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid memory entry: %s", e.Reason)
}

// MemoryUnavailableError reports a failing memory backend (unreachable
// service, closed store). The turn engine degrades gracefully on it: the
// affected store is skipped and the turn proceeds without its results.
type MemoryUnavailableError struct {
	Store string
	Err   error
}

// Error implements the error interface.
func (e *MemoryUnavailableError) Error() string {
	return fmt.Sprintf("memory store %q unavailable: %v", e.Store, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *MemoryUnavailableError) Unwrap() error { return e.Err }

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/agentloop/agentloop/core"
)

// ListStore is the reference MemoryStore: a process-local, insertion-ordered
// collection scored with a token-level longest-matching-subsequence ratio.
// The measure is symmetric, deterministic and monotonic in textual overlap,
// ranging over [0,1].
//
// Query returns all entries scoring above zero unless a limit is given.
// Suitable for tests, demos and small fact sets; swap in an embeddings-backed
// store (see memory/chromem) for semantic retrieval at scale.
//
// Concurrency: protected by RWMutex, safe to share across agents.
type ListStore struct {
	name string

	mu      sync.RWMutex
	entries []core.MemoryContent
}

var _ core.MemoryStore = (*ListStore)(nil)

// NewListStore creates an empty ListStore. The name identifies the store in
// MemoryQueryEvents and logs.
func NewListStore(name string) *ListStore {
	return &ListStore{name: name}
}

// Name returns the store identifier.
func (s *ListStore) Name() string { return s.name }

// Add appends an entry, stamping the insertion time when unset. Entries with
// no content are rejected with *core.InvalidEntryError.
func (s *ListStore) Add(_ context.Context, content core.MemoryContent) error {
	if content.Content == "" {
		return &core.InvalidEntryError{Reason: "content must not be empty"}
	}

	if content.MimeType == "" {
		content.MimeType = core.MimeTypeText
	}
	if content.Timestamp.IsZero() {
		content.Timestamp = time.Now().UTC()
	}
	content.Score = 0 // query-relative, never persisted

	s.mu.Lock()
	s.entries = append(s.entries, content)
	s.mu.Unlock()

	return nil
}

// Query scores every entry against text and returns those above zero,
// highest score first. Ties keep insertion order (earlier wins). Stored
// entries are never mutated; results are scored copies.
func (s *ListStore) Query(_ context.Context, text string, optFns ...func(o *core.MemoryQueryOptions)) ([]core.MemoryContent, error) {
	opts := core.MemoryQueryOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	queryTokens := tokenize(text)

	s.mu.RLock()
	results := make([]core.MemoryContent, 0, len(s.entries))
	for _, entry := range s.entries {
		score := subsequenceRatio(queryTokens, tokenize(entry.Content))
		if score <= 0 {
			continue
		}

		scored := entry
		scored.Score = score
		results = append(results, scored)
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

// Transform appends the rendered results to buf as a memory-derived message.
func (s *ListStore) Transform(buf *core.Buffer, results []core.MemoryContent) error {
	return Inject(buf, results)
}

// Clear empties the store. Idempotent.
func (s *ListStore) Clear(context.Context) error {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	return nil
}

// Cleanup implements core.MemoryStore. ListStore holds no external resources.
func (s *ListStore) Cleanup(context.Context) error { return nil }

// tokenize lowercases text and splits it on any non-letter/non-digit rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// subsequenceRatio computes 2*M/T where M is the length of the longest common
// subsequence of the two token slices and T the total token count. Symmetric,
// in [0,1]; 1 means identical token sequences, 0 means nothing in common.
func subsequenceRatio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Classic LCS over two rows.
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}

	matched := prev[len(b)]

	return 2 * float64(matched) / float64(len(a)+len(b))
}

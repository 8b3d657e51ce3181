// Package chromem provides an embeddings-backed MemoryStore on top of
// chromem-go, a pure Go embedded vector database. Ranking uses cosine
// similarity between the query embedding and stored entry embeddings,
// preserving the MemoryStore ranking contract (deterministic for fixed
// inputs, monotonic in semantic overlap as defined by the Embedder).
package chromem

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/agentloop/agentloop/core"
	"github.com/agentloop/agentloop/memory"
)

// Embedder converts text to vector embeddings. Implementations range from
// deterministic mocks (memory/embedder/mock) to remote embedding APIs.
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// Options configures a Store.
type Options struct {
	// DefaultLimit caps Query results when the caller gives no limit.
	DefaultLimit int
}

// Store is a core.MemoryStore backed by an in-process chromem-go collection.
//
// Concurrency: guarded by a mutex; safe to share across agents.
type Store struct {
	name     string
	embedder Embedder
	limit    int

	mu     sync.Mutex
	db     *chromem.DB
	col    *chromem.Collection
	seq    int
	closed bool
}

var _ core.MemoryStore = (*Store)(nil)

// New creates a Store named name using embedder for both storage and query
// vectors.
func New(name string, embedder Embedder, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{DefaultLimit: 5}
	for _, fn := range optFns {
		fn(&opts)
	}

	db := chromem.NewDB()
	col, err := db.CreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Store{
		name:     name,
		embedder: embedder,
		limit:    opts.DefaultLimit,
		db:       db,
		col:      col,
	}, nil
}

// Name returns the store identifier.
func (s *Store) Name() string { return s.name }

// Add embeds the entry content and stores it as a document. Entries with no
// content are rejected with *core.InvalidEntryError.
func (s *Store) Add(ctx context.Context, content core.MemoryContent) error {
	if content.Content == "" {
		return &core.InvalidEntryError{Reason: "content must not be empty"}
	}

	embedding, err := s.embedder.Embed(ctx, content.Content)
	if err != nil {
		return s.unavailable(fmt.Errorf("embed content: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.unavailable(fmt.Errorf("store is closed"))
	}

	mimeType := content.MimeType
	if mimeType == "" {
		mimeType = core.MimeTypeText
	}
	timestamp := content.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	doc := chromem.Document{
		ID:        fmt.Sprintf("%s-%d", s.name, s.seq),
		Content:   content.Content,
		Embedding: embedding,
		Metadata:  encodeMetadata(content, mimeType, timestamp, s.seq),
	}

	if err := s.col.AddDocument(ctx, doc); err != nil {
		return s.unavailable(fmt.Errorf("add document: %w", err))
	}

	s.seq++

	return nil
}

// Query embeds text and returns the nearest stored entries, highest cosine
// similarity first, ties broken by insertion order. Entries with
// non-positive similarity are dropped.
func (s *Store) Query(ctx context.Context, text string, optFns ...func(o *core.MemoryQueryOptions)) ([]core.MemoryContent, error) {
	opts := core.MemoryQueryOptions{Limit: s.limit}
	for _, fn := range optFns {
		fn(&opts)
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, s.unavailable(fmt.Errorf("embed query: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, s.unavailable(fmt.Errorf("store is closed"))
	}

	// chromem rejects nResults larger than the collection size.
	n := opts.Limit
	if count := s.col.Count(); n > count {
		n = count
	}
	if n <= 0 {
		return []core.MemoryContent{}, nil
	}

	raw, err := s.col.QueryEmbedding(ctx, embedding, n, nil, nil)
	if err != nil {
		return nil, s.unavailable(fmt.Errorf("query collection: %w", err))
	}

	type scored struct {
		content core.MemoryContent
		seq     int
	}

	hits := make([]scored, 0, len(raw))
	for _, res := range raw {
		if res.Similarity <= 0 {
			continue
		}
		content, seq := decodeResult(res)
		hits = append(hits, scored{content: content, seq: seq})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].content.Score != hits[j].content.Score {
			return hits[i].content.Score > hits[j].content.Score
		}
		return hits[i].seq < hits[j].seq
	})

	results := make([]core.MemoryContent, len(hits))
	for i, h := range hits {
		results[i] = h.content
	}

	return results, nil
}

// Transform appends the rendered results to buf as a memory-derived message.
func (s *Store) Transform(buf *core.Buffer, results []core.MemoryContent) error {
	return memory.Inject(buf, results)
}

// Clear drops and recreates the collection. Idempotent.
func (s *Store) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	if err := s.db.DeleteCollection(s.name); err != nil {
		return s.unavailable(fmt.Errorf("delete collection: %w", err))
	}

	col, err := s.db.CreateCollection(s.name, nil, nil)
	if err != nil {
		return s.unavailable(fmt.Errorf("recreate collection: %w", err))
	}
	s.col = col

	return nil
}

// Cleanup marks the store closed. chromem keeps everything in process
// memory, so there is nothing external to release. Idempotent.
func (s *Store) Cleanup(context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return nil
}

func (s *Store) unavailable(err error) error {
	return &core.MemoryUnavailableError{Store: s.name, Err: err}
}

func encodeMetadata(content core.MemoryContent, mimeType core.MimeType, timestamp time.Time, seq int) map[string]string {
	md := map[string]string{
		"mime_type": string(mimeType),
		"timestamp": timestamp.Format(time.RFC3339Nano),
		"seq":       strconv.Itoa(seq),
	}
	if content.Source != "" {
		md["source"] = content.Source
	}

	for k, v := range content.Metadata {
		if str, ok := v.(string); ok {
			md["meta."+k] = str
			continue
		}
		if encoded, err := json.Marshal(v); err == nil {
			md["meta."+k] = string(encoded)
		}
	}

	return md
}

// decodeResult rebuilds the stored entry and its insertion sequence number,
// used to break score ties in favour of earlier entries.
func decodeResult(res chromem.Result) (core.MemoryContent, int) {
	content := core.MemoryContent{
		Content:  res.Content,
		MimeType: core.MimeType(res.Metadata["mime_type"]),
		Source:   res.Metadata["source"],
		Score:    float64(res.Similarity),
	}

	if ts, err := time.Parse(time.RFC3339Nano, res.Metadata["timestamp"]); err == nil {
		content.Timestamp = ts
	}

	for k, v := range res.Metadata {
		if len(k) > 5 && k[:5] == "meta." {
			if content.Metadata == nil {
				content.Metadata = make(map[string]any)
			}
			content.Metadata[k[5:]] = v
		}
	}

	seq, _ := strconv.Atoi(res.Metadata["seq"])

	return content, seq
}

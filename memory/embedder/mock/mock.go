// Package mock provides a deterministic Embedder for tests and examples. It
// hashes tokens into a fixed-size bag-of-words vector, so texts sharing words
// embed close to each other without any model dependency.
package mock

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder is a deterministic, dependency-free embedding function. Not a
// semantic model: similarity reflects token overlap only.
type Embedder struct {
	dims int
}

// New creates a mock embedder with the given vector size (128 if <= 0).
func New(dims int) *Embedder {
	if dims <= 0 {
		dims = 128
	}
	return &Embedder{dims: dims}
}

// Embed converts text into a normalized hashed bag-of-words vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dims)

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dims)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1 // degenerate input still embeds to a unit vector
		return vec, nil
	}

	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}

	return vec, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int { return e.dims }

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentloop/agentloop/core"
)

func TestListStore_AddRejectsEmptyContent(t *testing.T) {
	s := NewListStore("facts")

	err := s.Add(context.Background(), core.MemoryContent{})
	var invalid *core.InvalidEntryError
	require.ErrorAs(t, err, &invalid)
}

func TestListStore_AddDefaultsMimeTypeAndTimestamp(t *testing.T) {
	s := NewListStore("facts")
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, core.MemoryContent{Content: "the sky is blue"}))

	results, err := s.Query(ctx, "sky blue")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.MimeTypeText, results[0].MimeType)
	assert.False(t, results[0].Timestamp.IsZero())
}

func TestListStore_QueryRanksByOverlap(t *testing.T) {
	s := NewListStore("prefs")
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, core.MemoryContent{Content: "The weather should be in metric units"}))
	require.NoError(t, s.Add(ctx, core.MemoryContent{Content: "Meal recipes must be vegan"}))

	results, err := s.Query(ctx, "What is the weather in New York?")
	require.NoError(t, err)
	require.Len(t, results, 1, "the unrelated entry scores zero and is filtered")
	assert.Contains(t, results[0].Content, "metric units")
	assert.Greater(t, results[0].Score, 0.0)
	assert.LessOrEqual(t, results[0].Score, 1.0)
}

func TestListStore_QueryScoresNonIncreasing(t *testing.T) {
	s := NewListStore("facts")
	ctx := context.Background()

	entries := []string{
		"the quick brown fox jumps over the lazy dog",
		"the quick brown fox",
		"a quick update on the fox situation",
		"completely unrelated text about databases",
	}
	for _, e := range entries {
		require.NoError(t, s.Add(ctx, core.MemoryContent{Content: e}))
	}

	results, err := s.Query(ctx, "the quick brown fox")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestListStore_QueryTieBreaksByInsertionOrder(t *testing.T) {
	s := NewListStore("facts")
	ctx := context.Background()

	// Identical content scores identically; the earlier entry must win.
	require.NoError(t, s.Add(ctx, core.MemoryContent{Content: "alpha beta", Source: "first"}))
	require.NoError(t, s.Add(ctx, core.MemoryContent{Content: "alpha beta", Source: "second"}))

	results, err := s.Query(ctx, "alpha beta")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Source)
	assert.Equal(t, "second", results[1].Source)
}

func TestListStore_QueryLimit(t *testing.T) {
	s := NewListStore("facts")
	ctx := context.Background()

	for _, e := range []string{"red apples", "green apples", "yellow apples"} {
		require.NoError(t, s.Add(ctx, core.MemoryContent{Content: e}))
	}

	results, err := s.Query(ctx, "apples", func(o *core.MemoryQueryOptions) { o.Limit = 2 })
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestListStore_ClearThenQueryIsEmpty(t *testing.T) {
	s := NewListStore("facts")
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, core.MemoryContent{Content: "something"}))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx)) // idempotent

	results, err := s.Query(ctx, "something")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListStore_CleanupIdempotent(t *testing.T) {
	s := NewListStore("facts")
	require.NoError(t, s.Cleanup(context.Background()))
	require.NoError(t, s.Cleanup(context.Background()))
}

func TestInject_EmptyResultsIsNoOp(t *testing.T) {
	buf := core.NewBuffer()
	require.NoError(t, Inject(buf, nil))
	assert.Equal(t, 0, buf.Len())
}

func TestInject_RendersNumberedMemoryDerivedMessage(t *testing.T) {
	buf := core.NewBuffer()
	results := []core.MemoryContent{
		{Content: "prefers metric units", Score: 0.8},
		{Content: "lives in Berlin", Score: 0.4},
	}

	require.NoError(t, Inject(buf, results))
	require.Equal(t, 1, buf.Len())

	msg := buf.Messages()[0].(core.SystemMessage)
	assert.True(t, msg.MemoryDerived)
	assert.Contains(t, msg.Content, "Relevant memory content")
	assert.Contains(t, msg.Content, "1. prefers metric units")
	assert.Contains(t, msg.Content, "2. lives in Berlin")
}

func TestSubsequenceRatio_Properties(t *testing.T) {
	a := tokenize("the quick brown fox")
	b := tokenize("the quick red fox")

	// Symmetric.
	assert.Equal(t, subsequenceRatio(a, b), subsequenceRatio(b, a))

	// Identity scores 1.
	assert.Equal(t, 1.0, subsequenceRatio(a, a))

	// Disjoint scores 0.
	assert.Equal(t, 0.0, subsequenceRatio(a, tokenize("completely different words")))

	// Empty input scores 0.
	assert.Equal(t, 0.0, subsequenceRatio(nil, a))
}

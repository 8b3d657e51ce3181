package tool

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentloop/agentloop/core"
	"github.com/agentloop/agentloop/logging"
)

// Interface compliance (compile-time assertion)
var _ Tool = (*FunctionTool)(nil)

func echoTool() Tool {
	return NewFunction("echo", "Echo the input",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			return args["text"].(string), nil
		})
}

func TestRegistry_RegisterConflict(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool()))

	err := r.Register(echoTool())
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "echo", conflict.Name)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ToolsPreserveRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"gamma", "alpha", "beta"}
	for _, name := range names {
		require.NoError(t, r.Register(NewFunction(name, name,
			map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ context.Context, _ map[string]any) (any, error) { return "ok", nil })))
	}

	got := make([]string, 0, 3)
	for _, tl := range r.Tools() {
		got = append(got, tl.Name())
	}
	assert.Equal(t, names, got)
}

func TestRegistry_ExecuteUnknownToolFoldsError(t *testing.T) {
	r := NewRegistry()

	res := r.Execute(context.Background(), core.ToolCall{ID: "c1", Name: "missing"})
	assert.Equal(t, "c1", res.CallID)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "not found")
}

func TestRegistry_ExecuteInvalidArgumentsFoldsError(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool()))

	// Not valid JSON.
	res := r.Execute(context.Background(), core.ToolCall{ID: "c1", Name: "echo", Arguments: "{"})
	assert.True(t, res.IsError)

	// Valid JSON, fails schema validation.
	res = r.Execute(context.Background(), core.ToolCall{ID: "c2", Name: "echo", Arguments: `{"text": 7}`})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "invalid arguments")
}

func TestRegistry_ExecuteEncodesStructuredResults(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewFunction("weather", "Weather lookup",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return map[string]any{"temperature_c": 21.5}, nil
		})))

	res := r.Execute(context.Background(), core.ToolCall{ID: "c1", Name: "weather", Arguments: "{}"})
	require.False(t, res.IsError)
	assert.JSONEq(t, `{"temperature_c": 21.5}`, res.Content)
}

func TestRegistry_DispatchPairsEveryResult(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool()))

	calls := []core.ToolCall{
		{ID: "c1", Name: "echo", Arguments: `{"text":"one"}`},
		{ID: "c2", Name: "missing"},
		{ID: "c3", Name: "echo", Arguments: `{"text":"three"}`},
	}

	results, err := r.Dispatch(context.Background(), calls)
	require.NoError(t, err)
	require.Len(t, results, len(calls))

	for i, res := range results {
		assert.Equal(t, calls[i].ID, res.CallID)
	}

	assert.Equal(t, "one", results[0].Content)
	assert.True(t, results[1].IsError)
	assert.Equal(t, "three", results[2].Content)
}

func TestRegistry_DispatchRunsCallsConcurrently(t *testing.T) {
	r := NewRegistry(func(o *RegistryOptions) { o.MaxConcurrentCalls = 2 })

	var mu sync.Mutex
	inflight, peak := 0, 0

	require.NoError(t, r.Register(NewFunction("slow", "Sleeps briefly",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			mu.Lock()
			inflight++
			if inflight > peak {
				peak = inflight
			}
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)

			mu.Lock()
			inflight--
			mu.Unlock()
			return "done", nil
		})))

	calls := []core.ToolCall{
		{ID: "c1", Name: "slow", Arguments: "{}"},
		{ID: "c2", Name: "slow", Arguments: "{}"},
		{ID: "c3", Name: "slow", Arguments: "{}"},
	}

	results, err := r.Dispatch(context.Background(), calls)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.GreaterOrEqual(t, peak, 2)
	assert.LessOrEqual(t, peak, 2)
}

func TestRegistry_DispatchCancellationDropsPartialRound(t *testing.T) {
	r := NewRegistry(func(o *RegistryOptions) { o.MaxConcurrentCalls = 1 })

	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, r.Register(NewFunction("first", "Completes then cancels the run",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			cancel()
			return "finished", nil
		})))
	require.NoError(t, r.Register(NewFunction("second", "Never reached",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return "unreachable", nil
		})))

	calls := []core.ToolCall{
		{ID: "c1", Name: "first", Arguments: "{}"},
		{ID: "c2", Name: "second", Arguments: "{}"},
	}

	results, err := r.Dispatch(ctx, calls)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestRegistry_ExecuteRecordsTelemetryOnTurnLogger(t *testing.T) {
	var buf bytes.Buffer
	tl := logging.New(&logging.Config{Level: slog.LevelDebug, Format: "json", Output: &buf, Component: "registry"})

	r := NewRegistry(func(o *RegistryOptions) { o.Logger = tl })
	require.NoError(t, r.Register(NewFunction("echo", "echoes input",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return "hi", nil
		})))

	res := r.Execute(context.Background(), core.ToolCall{ID: "c1", Name: "echo", Arguments: "{}"})
	require.False(t, res.IsError)

	out := buf.String()
	assert.Contains(t, out, "tool execution completed")
	assert.Contains(t, out, `"tool":"echo"`)
	assert.Contains(t, out, `"call_id":"c1"`)
	assert.Contains(t, out, `"component":"registry"`)
}

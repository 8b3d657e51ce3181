package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentloop/agentloop/core"
	"github.com/agentloop/agentloop/logging"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// MaxConcurrentCalls bounds parallelism within one dispatch round.
	MaxConcurrentCalls int
	// Logger receives per-call telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Registry maps tool names to implementations and executes the call requests
// issued by a model gateway. Registration order is preserved so the tool
// schema presented to the model is stable across invocations.
//
// Public methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	order  []string
	limit  int
	logger logging.Logger
}

// NewRegistry creates an empty Registry with optional overrides.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		MaxConcurrentCalls: 4,
		Logger:             logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		tools:  make(map[string]Tool),
		limit:  opts.MaxConcurrentCalls,
		logger: opts.Logger,
	}
}

// Register adds a tool. Duplicate names are rejected with *ConflictError.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return &ConflictError{Name: t.Name()}
	}

	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())

	return nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}

	return tools
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Execute runs a single tool call and always produces a paired result:
// unknown tools, invalid arguments and runtime failures are encoded in the
// result content with IsError set, never raised past this boundary.
func (r *Registry) Execute(ctx context.Context, call core.ToolCall) core.ToolCallResult {
	r.mu.RLock()
	t, exists := r.tools[call.Name]
	r.mu.RUnlock()

	if !exists {
		err := &NotFoundError{Name: call.Name}
		r.logger.Warn("tool not found", "tool", call.Name, "call_id", call.ID)

		return errorResult(call, err)
	}

	args := make(map[string]any)
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return errorResult(call, &ArgumentError{Tool: call.Name, Err: err})
		}
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	dur := time.Since(start)

	if tl, ok := r.logger.(*logging.TurnLogger); ok {
		tl.LogToolCall(call.Name, call.ID, dur, err)
	} else {
		r.logger.Debug("tool executed", "tool", call.Name, "call_id", call.ID, "duration_ms", dur.Milliseconds(), "error", err != nil)
	}

	if err != nil {
		return errorResult(call, err)
	}

	content, ok := result.(string)
	if !ok {
		encoded, err := json.Marshal(result)
		if err != nil {
			return errorResult(call, fmt.Errorf("encode result: %w", err))
		}
		content = string(encoded)
	}

	return core.ToolCallResult{CallID: call.ID, Name: call.Name, Content: content}
}

// Dispatch executes all calls of one round. Independent calls run
// concurrently up to the configured limit; execution order is unspecified but
// result order matches call order and pairing by call ID is exact.
//
// Dispatch returns an error only on context cancellation, in which case no
// partial result set is returned: the round either completes fully or not at
// all.
func (r *Registry) Dispatch(ctx context.Context, calls []core.ToolCall) ([]core.ToolCallResult, error) {
	results := make([]core.ToolCallResult, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = r.Execute(gctx, call)

			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func errorResult(call core.ToolCall, err error) core.ToolCallResult {
	return core.ToolCallResult{
		CallID:  call.ID,
		Name:    call.Name,
		Content: err.Error(),
		IsError: true,
	}
}

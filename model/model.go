package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentloop/agentloop/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the turn engine.
// Messages carry the full conversational context in append order, including
// memory-derived system messages and prior tool rounds.
type Request struct {
	Messages []core.ContextMessage
	Tools    []ToolDefinition
}

// Result is a single completed model response. Exactly one of Text and
// ToolCalls is expected to be meaningful; a result with neither signals the
// model produced nothing usable.
type Result struct {
	Text         string
	ToolCalls    []core.ToolCall
	Usage        *core.TokenUsage
	FinishReason string // "stop", "length", "tool_calls", etc.
}

// Empty reports whether the result carries neither text nor tool calls.
func (r *Result) Empty() bool {
	return r.Text == "" && len(r.ToolCalls) == 0
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the interface the turn engine uses to drive generation. Invoke is
// a single-shot gateway call; providers map the unified request onto their
// vendor SDK and extract text and tool calls from the reply.
type Model interface {
	Invoke(ctx context.Context, req Request) (*Result, error)

	// Info returns information about the model implementation.
	Info() Info
}

// GatewayError wraps a provider-side failure so callers can distinguish
// gateway problems from local ones.
type GatewayError struct {
	Provider string
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("model gateway %s: %v", e.Provider, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// MockModel is a scripted in-memory Model for tests and examples. Each Invoke
// pops the next queued result; it also records every request it receives so
// tests can assert on the context the engine assembled.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	results  []*Result
	requests []Request
	err      error
}

var _ Model = (*MockModel)(nil)

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      "mock",
			SupportsTools: true,
		},
	}
}

// Enqueue appends results to the script, in invocation order.
func (m *MockModel) Enqueue(results ...*Result) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, results...)

	return m
}

// Fail makes every subsequent Invoke return err.
func (m *MockModel) Fail(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err

	return m
}

// Invoke implements Model; pops the next scripted result. An exhausted script
// yields an empty result rather than an error, mirroring a model that has
// nothing left to say.
func (m *MockModel) Invoke(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.err != nil {
		return nil, &GatewayError{Provider: m.info.Provider, Err: m.err}
	}

	if len(m.results) == 0 {
		return &Result{FinishReason: "stop"}, nil
	}

	next := m.results[0]
	m.results = m.results[1:]

	return next, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

// Requests returns a snapshot of every request received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]Request, len(m.requests))
	copy(snapshot, m.requests)

	return snapshot
}

package agent

import (
	"fmt"
	"sync"

	"github.com/agentloop/agentloop/core"
	"github.com/agentloop/agentloop/logging"
	"github.com/agentloop/agentloop/model"
	"github.com/agentloop/agentloop/tool"
)

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	// Instruction is the system prompt appended to the context buffer at
	// construction time.
	Instruction string

	// MaxTurns caps the number of ModelInvoke/ToolDispatch cycles within one
	// run. Exceeding it force-terminates the run with stop reason
	// "max_turns_exceeded".
	MaxTurns int

	// MaxConcurrentToolCalls bounds parallelism within one dispatch round.
	MaxConcurrentToolCalls int

	// Memories are queried in attachment order at the start of every run.
	Memories []core.MemoryStore

	// Tools are registered with the agent's registry; duplicate names make
	// New fail.
	Tools []tool.Tool

	// Logger receives structured turn telemetry. Defaults to a TurnLogger
	// writing text to stderr; pass logging.NoOpLogger to silence it.
	Logger logging.Logger

	// EventBufferSize sizes the RunStream event channel.
	EventBufferSize int
}

// Agent drives turns against a language model, augmenting the conversation
// context with memory results and executing requested tool calls.
//
// An agent owns its context buffer exclusively; it is never shared across
// agents. Runs on the same agent are serialized.
type Agent struct {
	name        string
	llm         model.Model
	instruction string
	maxTurns    int
	memories    []core.MemoryStore
	registry    *tool.Registry
	logger      logging.Logger
	bufferSize  int

	mu     sync.Mutex
	buffer *core.Buffer
}

// New creates an agent named name backed by llm.
//
// Defaults: a generic assistant instruction, a cap of 10 tool-call rounds,
// 4 concurrent tool calls and a 16-event stream buffer.
func New(name string, llm model.Model, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		Instruction:            fmt.Sprintf("You are %s, a helpful AI assistant.", name),
		MaxTurns:               10,
		MaxConcurrentToolCalls: 4,
		Logger:                 logging.New(nil).WithComponent(name),
		EventBufferSize:        16,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	registry := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.MaxConcurrentCalls = opts.MaxConcurrentToolCalls
		o.Logger = opts.Logger
	})
	for _, t := range opts.Tools {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}

	buffer := core.NewBuffer()
	if opts.Instruction != "" {
		if err := buffer.Append(core.SystemMessage{Content: opts.Instruction}); err != nil {
			return nil, err
		}
	}

	return &Agent{
		name:        name,
		llm:         llm,
		instruction: opts.Instruction,
		maxTurns:    opts.MaxTurns,
		memories:    opts.Memories,
		registry:    registry,
		logger:      opts.Logger,
		bufferSize:  opts.EventBufferSize,
		buffer:      buffer,
	}, nil
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// Registry exposes the agent's tool registry, mainly so callers can inspect
// registered tools.
func (a *Agent) Registry() *tool.Registry { return a.registry }

// Context returns a read-only snapshot of the agent's context buffer.
func (a *Agent) Context() []core.ContextMessage {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.buffer.Messages()
}

// Reset clears the agent's context buffer back to the initial instruction.
// Attached memory stores are not touched.
func (a *Agent) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.buffer.Clear()
	if a.instruction != "" {
		return a.buffer.Append(core.SystemMessage{Content: a.instruction})
	}

	return nil
}

// toolDefinitions renders the registry's tools into the gateway schema.
func (a *Agent) toolDefinitions() []model.ToolDefinition {
	tools := a.registry.Tools()
	if len(tools) == 0 {
		return nil
	}

	defs := make([]model.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		}
	}

	return defs
}

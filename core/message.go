package core

// ContextMessage is a single entry of an agent's conversation context. The
// concrete message types implement the unexported isContextMessage marker,
// forming a closed union that consumers can type-switch exhaustively.
type ContextMessage interface {
	isContextMessage()

	// Role returns the conversational role of the message
	// ("system", "user", "assistant" or "tool").
	Role() string
}

// SystemMessage carries instructions or injected context for the model.
type SystemMessage struct {
	Content string

	// MemoryDerived marks messages injected by a MemoryStore's Transform
	// rather than authored conversation history. The engine and tests use
	// it to tell organic history apart from retrieval augmentation.
	MemoryDerived bool
}

func (SystemMessage) isContextMessage() {}

// Role implements ContextMessage.
func (SystemMessage) Role() string { return "system" }

// UserMessage is a message authored by the caller (the task text).
type UserMessage struct {
	Content string
}

func (UserMessage) isContextMessage() {}

// Role implements ContextMessage.
func (UserMessage) Role() string { return "user" }

// AssistantMessage is a model response. It carries plain text, one or more
// tool call requests, or both.
type AssistantMessage struct {
	Content   string
	ToolCalls []ToolCall
}

func (AssistantMessage) isContextMessage() {}

// Role implements ContextMessage.
func (AssistantMessage) Role() string { return "assistant" }

// ToolResultMessage bundles the results of one tool dispatch round. Every
// result must reference a pending ToolCall by its CallID; Buffer.Append
// rejects unmatched results.
type ToolResultMessage struct {
	Results []ToolCallResult
}

func (ToolResultMessage) isContextMessage() {}

// Role implements ContextMessage.
func (ToolResultMessage) Role() string { return "tool" }

// ToolCall is a structured request by the model to execute a named tool.
// The ID is generated by the model gateway and is unique within a turn.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // JSON-encoded argument payload
}

// ToolCallResult is the outcome of executing a single ToolCall. Execution
// failures are encoded in Content with IsError set rather than surfaced as
// Go errors, so the model can react to them on the next invocation.
type ToolCallResult struct {
	CallID  string `json:"call_id"` // matches the originating ToolCall.ID
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// TokenUsage captures prompt/completion token counters reported by a model
// gateway, attached to events for observability.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

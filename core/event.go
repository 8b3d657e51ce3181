package core

// Event type discriminants. Every event carries exactly one of these values,
// so streams can be matched exhaustively by consumers.
const (
	EventTypeTextMessage            = "TextMessage"
	EventTypeMemoryQuery            = "MemoryQueryEvent"
	EventTypeToolCallRequest        = "ToolCallRequestEvent"
	EventTypeToolCallExecution      = "ToolCallExecutionEvent"
	EventTypeToolCallSummaryMessage = "ToolCallSummaryMessage"
)

// Stop reasons attached to a TaskResult. An empty stop reason means the turn
// completed normally with a terminal text message.
const (
	StopReasonMaxTurns           = "max_turns_exceeded"
	StopReasonEmptyModelResponse = "empty_model_response"
	StopReasonCancelled          = "cancelled"
)

// Event is one observable step of a turn. Events are append-only and
// immutable once emitted; the Emitter assigns each a unique ID and a
// monotonically increasing sequence position. The concrete event types form
// a closed union via the unexported stamp method.
type Event interface {
	// Type returns the discriminant string of the concrete event.
	Type() string

	// Source names the component that produced the event (agent name or
	// memory store name).
	Source() string

	// Position returns the zero-based sequence number within the run.
	Position() int

	stamp(id string, seq int)
}

// EventMeta carries the fields common to all events. Concrete event types
// embed it by pointer promotion; the engine fills From and Usage, the
// Emitter fills ID and Seq.
type EventMeta struct {
	ID    string      `json:"id"`
	From  string      `json:"source"`
	Seq   int         `json:"seq"`
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Source implements part of the Event interface.
func (m *EventMeta) Source() string { return m.From }

// Position implements part of the Event interface.
func (m *EventMeta) Position() int { return m.Seq }

// TokenUsage returns the token counts attached to the event, or nil.
func (m *EventMeta) TokenUsage() *TokenUsage { return m.Usage }

func (m *EventMeta) stamp(id string, seq int) {
	m.ID = id
	m.Seq = seq
}

// TextMessage is a plain text completion produced by the model. It is the
// terminal event of a successful turn.
type TextMessage struct {
	EventMeta
	Content string `json:"content"`
}

// Type implements Event.
func (*TextMessage) Type() string { return EventTypeTextMessage }

// MemoryQueryEvent reports the results of querying one attached memory store,
// including empty result sets. Err is set when the store was unavailable and
// the turn proceeded without it.
type MemoryQueryEvent struct {
	EventMeta
	Content []MemoryContent `json:"content"`
	Err     string          `json:"error,omitempty"`
}

// Type implements Event.
func (*MemoryQueryEvent) Type() string { return EventTypeMemoryQuery }

// ToolCallRequestEvent signals that the model requested tool executions.
type ToolCallRequestEvent struct {
	EventMeta
	Content []ToolCall `json:"content"`
}

// Type implements Event.
func (*ToolCallRequestEvent) Type() string { return EventTypeToolCallRequest }

// ToolCallExecutionEvent bundles the results of one dispatch round. It is
// emitted only after every call of the round has completed.
type ToolCallExecutionEvent struct {
	EventMeta
	Content []ToolCallResult `json:"content"`
}

// Type implements Event.
func (*ToolCallExecutionEvent) Type() string { return EventTypeToolCallExecution }

// ToolCallSummaryMessage summarizes the tool executions that preceded the
// terminal text of a turn. It is emitted only when at least one tool round
// ran before the model answered.
type ToolCallSummaryMessage struct {
	EventMeta
	Content string `json:"content"`
}

// Type implements Event.
func (*ToolCallSummaryMessage) Type() string { return EventTypeToolCallSummaryMessage }

// TaskResult is the terminal artifact of one run: the full ordered event
// history plus an optional stop reason. It is a snapshot, not a live view.
type TaskResult struct {
	Messages   []Event `json:"messages"`
	StopReason string  `json:"stop_reason,omitempty"`
}

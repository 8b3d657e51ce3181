package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnmatchedToolResult is returned by Buffer.Append when a ToolResultMessage
// references a call identifier that no prior assistant message issued (or that
// was already resolved).
var ErrUnmatchedToolResult = errors.New("tool result does not match a pending tool call")

// Buffer is the ordered conversation context owned by a single agent. It is
// append-only during a turn: messages are never reordered or dropped, and tool
// call requests stay correctly paired with their results in sequence order.
//
// A Buffer is created at agent construction and lives for the agent's
// lifetime (or until Clear). Clearing the buffer does not affect any attached
// MemoryStore.
type Buffer struct {
	mu       sync.RWMutex
	messages []ContextMessage
	pending  map[string]struct{} // unresolved tool call IDs
}

// NewBuffer creates an empty conversation buffer.
func NewBuffer() *Buffer {
	return &Buffer{pending: make(map[string]struct{})}
}

// Append adds a message to the end of the buffer. Assistant messages register
// their tool calls as pending; a ToolResultMessage must resolve pending calls
// exactly, otherwise ErrUnmatchedToolResult is returned and the buffer is left
// unchanged.
func (b *Buffer) Append(msg ContextMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch m := msg.(type) {
	case AssistantMessage:
		for _, call := range m.ToolCalls {
			b.pending[call.ID] = struct{}{}
		}
	case ToolResultMessage:
		for _, res := range m.Results {
			if _, ok := b.pending[res.CallID]; !ok {
				return fmt.Errorf("%w: %q", ErrUnmatchedToolResult, res.CallID)
			}
		}
		for _, res := range m.Results {
			delete(b.pending, res.CallID)
		}
	}

	b.messages = append(b.messages, msg)

	return nil
}

// Messages returns a read-only snapshot of the buffer in order.
func (b *Buffer) Messages() []ContextMessage {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snapshot := make([]ContextMessage, len(b.messages))
	copy(snapshot, b.messages)

	return snapshot
}

// Len returns the number of messages currently held.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.messages)
}

// Clear empties the buffer and forgets pending tool calls.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = nil
	b.pending = make(map[string]struct{})
}

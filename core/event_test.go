package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter_AssignsMonotonicPositions(t *testing.T) {
	em := NewEmitter(nil)
	ctx := context.Background()

	require.NoError(t, em.Emit(ctx, &MemoryQueryEvent{EventMeta: EventMeta{From: "store"}}))
	require.NoError(t, em.Emit(ctx, &TextMessage{EventMeta: EventMeta{From: "agent"}, Content: "hi"}))

	history := em.History()
	require.Len(t, history, 2)

	for i, ev := range history {
		assert.Equal(t, i, ev.Position())
	}

	assert.NotEmpty(t, history[0].(*MemoryQueryEvent).ID)
	assert.NotEmpty(t, history[1].(*TextMessage).ID)
	assert.NotEqual(t, history[0].(*MemoryQueryEvent).ID, history[1].(*TextMessage).ID)
}

func TestEmitter_ForwardsToSink(t *testing.T) {
	sink := make(chan Event, 4)
	em := NewEmitter(sink)
	ctx := context.Background()

	require.NoError(t, em.Emit(ctx, &TextMessage{EventMeta: EventMeta{From: "agent"}, Content: "a"}))
	require.NoError(t, em.Emit(ctx, &TextMessage{EventMeta: EventMeta{From: "agent"}, Content: "b"}))

	first := <-sink
	second := <-sink
	assert.Equal(t, 0, first.Position())
	assert.Equal(t, 1, second.Position())
	assert.Equal(t, EventTypeTextMessage, first.Type())
}

func TestEmitter_EmitRespectsCancellation(t *testing.T) {
	sink := make(chan Event) // unbuffered, nobody reading
	em := NewEmitter(sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := em.Emit(ctx, &TextMessage{EventMeta: EventMeta{From: "agent"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitter_ResultSnapshots(t *testing.T) {
	em := NewEmitter(nil)
	require.NoError(t, em.Emit(context.Background(), &TextMessage{EventMeta: EventMeta{From: "agent"}}))

	res := em.Result(StopReasonMaxTurns)
	assert.Equal(t, StopReasonMaxTurns, res.StopReason)
	require.Len(t, res.Messages, 1)

	// Snapshot, not a live view.
	require.NoError(t, em.Emit(context.Background(), &TextMessage{EventMeta: EventMeta{From: "agent"}}))
	assert.Len(t, res.Messages, 1)
}

func TestEventTypeDiscriminants(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{&TextMessage{}, EventTypeTextMessage},
		{&MemoryQueryEvent{}, EventTypeMemoryQuery},
		{&ToolCallRequestEvent{}, EventTypeToolCallRequest},
		{&ToolCallExecutionEvent{}, EventTypeToolCallExecution},
		{&ToolCallSummaryMessage{}, EventTypeToolCallSummaryMessage},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ev.Type())
	}
}

package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentloop/agentloop/core"
)

func TestMockModel_PopsScriptedResultsInOrder(t *testing.T) {
	m := NewMockModel("test").Enqueue(
		&Result{Text: "first"},
		&Result{ToolCalls: []core.ToolCall{{ID: "call-1", Name: "get_weather", Arguments: `{"city":"Berlin"}`}}, FinishReason: "tool_calls"},
	)

	ctx := context.Background()

	first, err := m.Invoke(ctx, Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", first.Text)
	assert.False(t, first.Empty())

	second, err := m.Invoke(ctx, Request{})
	require.NoError(t, err)
	require.Len(t, second.ToolCalls, 1)
	assert.Equal(t, "get_weather", second.ToolCalls[0].Name)
}

func TestMockModel_ExhaustedScriptYieldsEmptyResult(t *testing.T) {
	m := NewMockModel("test")

	res, err := m.Invoke(context.Background(), Request{})
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestMockModel_RecordsRequests(t *testing.T) {
	m := NewMockModel("test").Enqueue(&Result{Text: "ok"})

	req := Request{
		Messages: []core.ContextMessage{core.UserMessage{Content: "hello"}},
		Tools:    []ToolDefinition{{Name: "echo"}},
	}
	_, err := m.Invoke(context.Background(), req)
	require.NoError(t, err)

	recorded := m.Requests()
	require.Len(t, recorded, 1)
	assert.Equal(t, req.Messages, recorded[0].Messages)
	assert.Equal(t, "echo", recorded[0].Tools[0].Name)
}

func TestMockModel_FailWrapsInGatewayError(t *testing.T) {
	cause := errors.New("boom")
	m := NewMockModel("test").Fail(cause)

	_, err := m.Invoke(context.Background(), Request{})
	var gw *GatewayError
	require.ErrorAs(t, err, &gw)
	assert.Equal(t, "mock", gw.Provider)
	assert.ErrorIs(t, err, cause)
}

func TestMockModel_HonorsCancelledContext(t *testing.T) {
	m := NewMockModel("test").Enqueue(&Result{Text: "never"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Invoke(ctx, Request{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Requests(), "a cancelled invoke must not consume the script")
}

// Package console renders an agent's event stream to a writer as the run
// progresses. It is the reference streaming consumer: it drains the finite
// event sequence produced by RunStream and hands back the terminal
// TaskResult.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agentloop/agentloop/core"
)

// Run drains events to w until the stream closes, then waits for the
// terminal value. It returns the run's TaskResult, or the error that stopped
// the stream.
func Run(
	ctx context.Context,
	w io.Writer,
	events <-chan core.Event,
	results <-chan *core.TaskResult,
	errs <-chan error,
) (*core.TaskResult, error) {
	for events != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			fmt.Fprint(w, Render(ev))
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errs:
		if err != nil {
			return nil, err
		}
		// The error channel closed without a value; the result follows.
		return waitResult(ctx, results)
	case result := <-results:
		return result, nil
	}
}

func waitResult(ctx context.Context, results <-chan *core.TaskResult) (*core.TaskResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		return result, nil
	}
}

// Render formats one event as display text. The type switch is exhaustive
// over the event union.
func Render(ev core.Event) string {
	var b strings.Builder

	fmt.Fprintf(&b, "---------- %s (%s) ----------\n", ev.Type(), ev.Source())

	switch e := ev.(type) {
	case *core.TextMessage:
		fmt.Fprintln(&b, e.Content)
	case *core.MemoryQueryEvent:
		if e.Err != "" {
			fmt.Fprintf(&b, "[memory unavailable: %s]\n", e.Err)
			break
		}
		if len(e.Content) == 0 {
			fmt.Fprintln(&b, "[no relevant memory]")
			break
		}
		for _, mc := range e.Content {
			fmt.Fprintf(&b, "[%.2f] %s\n", mc.Score, mc.Content)
		}
	case *core.ToolCallRequestEvent:
		for _, call := range e.Content {
			fmt.Fprintf(&b, "%s(%s) [%s]\n", call.Name, call.Arguments, call.ID)
		}
	case *core.ToolCallExecutionEvent:
		for _, res := range e.Content {
			status := "ok"
			if res.IsError {
				status = "error"
			}
			fmt.Fprintf(&b, "%s [%s] %s: %s\n", res.Name, res.CallID, status, res.Content)
		}
	case *core.ToolCallSummaryMessage:
		fmt.Fprintln(&b, e.Content)
	}

	if usage := usageOf(ev); usage != nil {
		fmt.Fprintf(&b, "[prompt tokens: %d, completion tokens: %d]\n", usage.PromptTokens, usage.CompletionTokens)
	}

	return b.String()
}

func usageOf(ev core.Event) *core.TokenUsage {
	type withUsage interface{ TokenUsage() *core.TokenUsage }
	if u, ok := ev.(withUsage); ok {
		return u.TokenUsage()
	}

	return nil
}

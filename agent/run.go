package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentloop/agentloop/core"
	"github.com/agentloop/agentloop/logging"
	"github.com/agentloop/agentloop/model"
)

// Run executes one full turn for task and returns the buffered event history
// as a TaskResult.
//
// Forced stops (max-turn cap, empty model response, cancellation) are
// reported through TaskResult.StopReason, not as errors; only model gateway
// failures fail the run outright.
func (a *Agent) Run(ctx context.Context, task string) (*core.TaskResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	emitter := core.NewEmitter(nil)

	stopReason, err := a.execute(ctx, task, emitter)
	if err != nil {
		return nil, err
	}

	return emitter.Result(stopReason), nil
}

// RunStream executes one full turn for task, exposing events incrementally.
//
// The event channel is a fresh, finite, forward-only stream: it carries every
// event of the run in order and is closed when the run ends. Afterwards
// exactly one of the result and error channels delivers a value, mirroring
// Run's return contract.
func (a *Agent) RunStream(ctx context.Context, task string) (<-chan core.Event, <-chan *core.TaskResult, <-chan error) {
	events := make(chan core.Event, a.bufferSize)
	results := make(chan *core.TaskResult, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(results)
		defer close(errs)

		a.mu.Lock()
		defer a.mu.Unlock()

		emitter := core.NewEmitter(events)

		stopReason, err := a.execute(ctx, task, emitter)
		close(events)

		if err != nil {
			errs <- err
			return
		}

		results <- emitter.Result(stopReason)
	}()

	return events, results, errs
}

// execute drives the turn state machine. It returns the stop reason for
// forced stops (empty string for a normal completion) or an error for model
// gateway failures. The caller holds a.mu.
func (a *Agent) execute(ctx context.Context, task string, emitter *core.Emitter) (string, error) {
	runID := uuid.NewString()
	log := a.logger
	if tl, ok := log.(*logging.TurnLogger); ok {
		log = tl.WithRun(runID)
	}

	log.Info("run started", "agent", a.name)

	if err := a.buffer.Append(core.UserMessage{Content: task}); err != nil {
		return "", err
	}

	if cancelled(a.queryMemories(ctx, task, emitter)) {
		return core.StopReasonCancelled, nil
	}

	defs := a.toolDefinitions()

	toolRounds := 0
	var executed []core.ToolCallResult

	for {
		if ctx.Err() != nil {
			return core.StopReasonCancelled, nil
		}

		start := time.Now()
		res, err := a.llm.Invoke(ctx, model.Request{Messages: a.buffer.Messages(), Tools: defs})
		if err != nil {
			if cancelled(err) {
				return core.StopReasonCancelled, nil
			}
			logModelCall(log, a.llm.Info().Name, nil, time.Since(start), err)
			return "", err
		}
		logModelCall(log, a.llm.Info().Name, res.Usage, time.Since(start), nil)

		// A response with neither text nor tool calls would stall the loop.
		if res.Empty() {
			log.Warn("model returned empty response", "agent", a.name)
			return core.StopReasonEmptyModelResponse, nil
		}

		if len(res.ToolCalls) == 0 {
			if err := a.buffer.Append(core.AssistantMessage{Content: res.Text}); err != nil {
				return "", err
			}

			text := &core.TextMessage{Content: res.Text}
			text.From = a.name
			text.Usage = res.Usage
			if err := emitter.Emit(ctx, text); err != nil {
				return core.StopReasonCancelled, nil
			}

			if toolRounds > 0 {
				summary := &core.ToolCallSummaryMessage{Content: summarize(executed)}
				summary.From = a.name
				if err := emitter.Emit(ctx, summary); err != nil {
					return core.StopReasonCancelled, nil
				}
			}

			log.Info("run completed", "agent", a.name, "tool_rounds", toolRounds)
			return "", nil
		}

		if toolRounds >= a.maxTurns {
			log.Warn("tool-call loop cap reached", "agent", a.name, "max_turns", a.maxTurns)
			return core.StopReasonMaxTurns, nil
		}

		if err := a.buffer.Append(core.AssistantMessage{Content: res.Text, ToolCalls: res.ToolCalls}); err != nil {
			return "", err
		}

		request := &core.ToolCallRequestEvent{Content: res.ToolCalls}
		request.From = a.name
		request.Usage = res.Usage
		if err := emitter.Emit(ctx, request); err != nil {
			return core.StopReasonCancelled, nil
		}

		// All calls of a round complete before any result becomes visible;
		// a cancelled round leaves the buffer untouched.
		results, err := a.registry.Dispatch(ctx, res.ToolCalls)
		if err != nil {
			return core.StopReasonCancelled, nil
		}

		execution := &core.ToolCallExecutionEvent{Content: results}
		execution.From = a.name
		if err := emitter.Emit(ctx, execution); err != nil {
			return core.StopReasonCancelled, nil
		}

		if err := a.buffer.Append(core.ToolResultMessage{Results: results}); err != nil {
			return "", err
		}

		executed = append(executed, results...)
		toolRounds++
	}
}

// queryMemories runs the MemoryQuery state: each attached store is queried in
// attachment order and its results injected into the context buffer. An
// unavailable store degrades the turn instead of aborting it.
func (a *Agent) queryMemories(ctx context.Context, task string, emitter *core.Emitter) error {
	for _, store := range a.memories {
		results, err := store.Query(ctx, task)
		if err != nil {
			if cancelled(err) {
				return err
			}

			a.logger.Warn("memory store unavailable, continuing without it",
				"agent", a.name,
				"store", storeName(store),
				"error", err.Error(),
			)

			ev := &core.MemoryQueryEvent{Err: err.Error()}
			ev.From = storeName(store)
			if emitErr := emitter.Emit(ctx, ev); emitErr != nil {
				return emitErr
			}

			continue
		}

		ev := &core.MemoryQueryEvent{Content: results}
		ev.From = storeName(store)
		if err := emitter.Emit(ctx, ev); err != nil {
			return err
		}

		if len(results) == 0 {
			continue
		}

		if err := store.Transform(a.buffer, results); err != nil {
			a.logger.Warn("memory transform failed",
				"agent", a.name,
				"store", storeName(store),
				"error", err.Error(),
			)
		}
	}

	return nil
}

// logModelCall routes gateway telemetry through TurnLogger's convenience
// method when available, falling back to plain structured entries for custom
// Logger implementations.
func logModelCall(log logging.Logger, name string, usage *core.TokenUsage, dur time.Duration, err error) {
	prompt, completion := 0, 0
	if usage != nil {
		prompt, completion = usage.PromptTokens, usage.CompletionTokens
	}

	if tl, ok := log.(*logging.TurnLogger); ok {
		tl.LogModelCall(name, prompt, completion, dur, err)
		return
	}

	if err != nil {
		log.Error("model call failed", "model", name, "duration_ms", dur.Milliseconds(), "error", err.Error())
		return
	}
	log.Debug("model call completed", "model", name, "prompt_tokens", prompt, "completion_tokens", completion, "duration_ms", dur.Milliseconds())
}

// summarize joins the contents of every executed tool result, in execution
// order, into the summary message body.
func summarize(results []core.ToolCallResult) string {
	lines := make([]string, len(results))
	for i, res := range results {
		lines[i] = res.Content
	}

	return strings.Join(lines, "\n")
}

func storeName(store core.MemoryStore) string {
	if n, ok := store.(interface{ Name() string }); ok {
		return n.Name()
	}

	return "memory"
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

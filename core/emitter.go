package core

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Emitter converts internal turn steps into the ordered, observable event
// stream. It is the sole producer for a run: it stamps every event with a
// fresh ID and the next sequence position, records it in the run history and
// optionally forwards it to a consumer channel.
//
// Back-pressure is naturally bounded because each event corresponds to an
// already-completed engine step; a slow consumer only delays the next step.
type Emitter struct {
	mu      sync.Mutex
	seq     int
	history []Event
	sink    chan<- Event
}

// NewEmitter creates an Emitter. sink may be nil for buffered (history-only)
// runs; when set, every emitted event is also delivered to it in order.
func NewEmitter(sink chan<- Event) *Emitter {
	return &Emitter{sink: sink}
}

// Emit stamps ev with identity and sequence position, appends it to the run
// history and forwards it to the sink. Delivery respects ctx so a cancelled
// consumer cannot wedge the engine.
func (e *Emitter) Emit(ctx context.Context, ev Event) error {
	e.mu.Lock()
	ev.stamp(uuid.NewString(), e.seq)
	e.seq++
	e.history = append(e.history, ev)
	e.mu.Unlock()

	if e.sink == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e.sink <- ev:
		return nil
	}
}

// History returns the events emitted so far, in order.
func (e *Emitter) History() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := make([]Event, len(e.history))
	copy(snapshot, e.history)

	return snapshot
}

// Result snapshots the history into a TaskResult with the given stop reason.
func (e *Emitter) Result(stopReason string) *TaskResult {
	return &TaskResult{Messages: e.History(), StopReason: stopReason}
}

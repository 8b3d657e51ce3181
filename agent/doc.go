// Package agent implements the turn engine: the orchestrator that drives one
// agent turn end to end by composing memory stores, the context buffer, the
// tool registry and a model gateway.
//
// A turn moves through a fixed sequence of states. The task is appended to
// the context buffer, each attached memory store is queried and its results
// injected, then the model is invoked in a loop. Each model response either
// requests tool calls, which are dispatched and folded back into context, or
// produces terminal text. A configurable cap bounds the tool-call loop so a
// misbehaving model cannot spin forever.
//
// Every step is observable through the event stream; Run buffers the stream
// into the returned TaskResult while RunStream exposes it incrementally.
package agent

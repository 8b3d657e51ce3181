// Package core provides the foundational domain types shared by every other
// package in agentloop. It defines:
//
//   - ContextMessage (closed union of conversation entries) and Buffer, the
//     ordered per-agent conversation context
//   - MemoryContent and the MemoryStore capability interface that retrieval
//     backends implement to plug into the turn engine
//   - Event (closed union of observable turn steps), Emitter and TaskResult,
//     the terminal artifact of a run
//   - Shared value types such as ToolCall, ToolCallResult and TokenUsage
//
// The package intentionally keeps implementation concerns (concrete stores,
// model gateways, tool execution, orchestration) out of scope, exposing small
// interfaces so backends can be swapped without touching the engine.
package core

// Package agentloop implements a turn-execution loop for LLM-backed agents
// with memory-augmented context management. On every turn an agent queries
// its attached memory stores for relevant facts, injects them into the
// conversation context, lets the model choose between answering and calling
// tools, executes requested tool calls with bounded concurrency and folds the
// results back into context, and emits an ordered event stream describing
// everything that happened.
//
// Most applications use the subpackages directly:
//  1. Build a model gateway (model/openai, model/anthropic, or a scripted
//     model.MockModel for tests).
//  2. Attach memory stores (memory.ListStore, memory.CachedStore or the
//     vector-backed memory/chromem.Store) and tools (tool.NewFunction).
//  3. Create an agent.Agent and call Run for a buffered TaskResult or
//     RunStream + console.Run for incremental display.
//
// The root package only anchors the module; it exports no API beyond the
// version string.
package agentloop

// Version is the current release of the module.
const Version = "0.1.0"

// Package model defines the provider-agnostic abstractions for invoking
// language models during a turn.
//
// Core goals:
//   - Keep request/result shapes minimal and transport independent
//   - Normalize tool exposure (ToolDefinition) and tool call extraction
//     across vendors
//   - Facilitate deterministic scripting for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so the turn engine stays decoupled from vendor SDKs.
package model

// Package tool implements the function calling subsystem that lets agents
// invoke structured capabilities (APIs, computations, side effects) with
// schema-validated arguments and consistent error handling.
//
// The Registry maps tool names to implementations and executes the tool call
// requests issued by a model gateway. Execution failures never escape a
// dispatch round as Go errors: they are folded into the result content so one
// bad call cannot abort its siblings and the model can react on the next
// invocation.
package tool

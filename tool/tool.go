package tool

import (
	"context"
	"fmt"

	"github.com/agentloop/agentloop/internal/schema"
)

// Tool defines the interface for extending agent capabilities with external
// functions.
//
// Implementations should provide clear, descriptive names and descriptions,
// define a proper JSON schema for parameters and be safe for concurrent use:
// independent calls within one dispatch round may execute in parallel.
type Tool interface {
	// Name returns the unique identifier for this tool
	// (snake_case recommended).
	Name() string

	// Description returns a human-readable description provided to the
	// model so it understands when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with already-decoded arguments. Returned
	// values must be JSON-serializable; errors are folded into the tool
	// result by the Registry.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError is re-exported so callers can match argument failures
// without importing the internal schema package.
type ValidationError = schema.ValidationError

// ConflictError reports a Register call with a name that is already taken.
type ConflictError struct {
	Name string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// NotFoundError reports a tool call naming an unregistered tool.
type NotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// ArgumentError reports arguments that failed schema validation or could not
// be decoded at all.
type ArgumentError struct {
	Tool string
	Err  error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %v", e.Tool, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ArgumentError) Unwrap() error { return e.Err }

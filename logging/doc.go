// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. A richer TurnLogger adds contextual cloning helpers and
// domain convenience methods for tool and model call telemetry.
package logging

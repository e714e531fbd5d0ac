// Package logging assembles structured slog loggers used across heiconv.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and provides a no-op logger for tests and wiring code that cannot fail.
// Per-task progress lines are not log records; they are emitted by the
// convert package's reporter so they stay clean for interactive use. This
// package carries diagnostics only.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging

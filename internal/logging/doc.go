// Package logging assembles structured slog loggers shared across the scribe
// daemon and CLI.
//
// It centralizes level and output plumbing for the console and JSON handlers,
// and exposes context-aware helpers so service code automatically tags log
// lines with session, event, and correlation identifiers. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so components emit
// data with the same shape and routing as the rest of the system.
package logging

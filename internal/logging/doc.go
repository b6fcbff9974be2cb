// Package logging assembles the structured slog loggers used across Ferry.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and defines the standardized field names (component, pass_id,
// file, event_type) that keep log lines greppable across the pipeline. A
// no-op logger is provided for tests and wiring code that cannot fail, and
// CleanupOldLogs prunes per-run log files past the retention window.
package logging

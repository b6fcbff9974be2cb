// Package runner owns the process lifecycle around the pipeline: run-scoped
// log files, the single-instance lock, signal handling, and dispatch between
// the cron and trigger run modes.
package runner

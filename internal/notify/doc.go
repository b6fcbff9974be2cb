// Package notify delivers optional push notifications for pass outcomes
// through an ntfy-compatible endpoint. The service degrades to a noop when
// no topic is configured; delivery failures are the caller's to log, never
// to fail a pass on.
package notify

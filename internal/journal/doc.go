// Package journal keeps a SQLite ledger of passes and per-file transfers.
//
// The ledger is an audit trail, not a work queue: the pipeline writes rows
// as it goes and the status/history commands read them back, but candidate
// discovery always re-enumerates the source directory. Journal failures are
// therefore never allowed to fail a pass, and a nil *Journal is a supported
// no-op so tests and minimal wiring can skip persistence entirely.
package journal

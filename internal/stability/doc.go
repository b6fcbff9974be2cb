// Package stability decides when a file deposited by an external producer is
// safe to read.
//
// The producer writes into the source directory without any coordination, so
// the only available signal is quiescence: a file whose size has stopped
// changing for long enough is assumed complete. The detector polls the size
// at a fixed interval and reports a vanished file immediately rather than
// retrying, leaving retry policy to the caller.
package stability

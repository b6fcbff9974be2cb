// Package watch implements the trigger run mode: a poll loop that fires a
// pass whenever the producer drops a marker file into the source directory.
package watch

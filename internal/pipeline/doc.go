// Package pipeline orchestrates a single pass over the source directory:
// build and persist the manifest, then hand the candidates to the copy
// engine, with journal and notification accounting around the whole thing.
package pipeline

// Package manifest builds and persists the per-pass checksum manifest.
//
// A manifest is a read-only record of what the source directory held when a
// pass began: name, size, mtime, and SHA-256 per candidate file, plus a
// generation timestamp. It is written to the source directory itself under a
// collision-safe name and handed downstream; nothing in Ferry consumes it.
package manifest

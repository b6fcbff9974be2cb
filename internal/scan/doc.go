// Package scan enumerates the candidate files of a pass.
//
// Both pipeline phases (manifest build and copy) list the source directory
// through the same Scanner so their exclusion rules cannot drift: the trigger
// marker, previously written manifest artifacts, directories, and configured
// ignore patterns are never candidates.
package scan

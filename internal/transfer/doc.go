// Package transfer moves stabilized files from the source directory to the
// resolved destination with bounded retry and hash accounting.
package transfer

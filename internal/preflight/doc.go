// Package preflight checks that the directories and destination Ferry needs
// are present and usable before a run, without failing startup over storage
// that may come online later.
package preflight

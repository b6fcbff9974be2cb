package preflight

import (
	"ferry/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every readiness check that applies to the given config.
// The daemon logs failures as warnings and starts anyway; the status command
// renders the full table.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Source directory", cfg.Paths.SourceDir),
		CheckTarget(cfg),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if !cfg.TargetIsRemote() {
		results = append(results, CheckFreeSpace("Destination free space", cfg.Paths.Target, minFreeBytes))
	}

	return results
}

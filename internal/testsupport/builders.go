package testsupport

import (
	"testing"
	"time"

	"ferry/internal/config"
	"ferry/internal/logging"
	"ferry/internal/manifest"
	"ferry/internal/scan"
	"ferry/internal/stability"
)

// NewDetector builds a stability detector from the config's timing knobs.
func NewDetector(cfg *config.Config) stability.Detector {
	return stability.Detector{
		PollInterval: time.Duration(cfg.Stability.PollInterval) * time.Second,
		Threshold:    time.Duration(cfg.Stability.Threshold) * time.Second,
		MaxWait:      time.Duration(cfg.Stability.MaxWait) * time.Second,
	}
}

// NewScanner builds a source-directory scanner from the config.
func NewScanner(cfg *config.Config) scan.Scanner {
	return scan.Scanner{
		Dir:            cfg.Paths.SourceDir,
		TriggerName:    cfg.Run.TriggerName,
		ManifestPrefix: cfg.Manifest.Prefix,
		Ignore:         cfg.Transfer.Ignore,
	}
}

// NewBuilder wires a manifest builder over the config's source directory
// with a discarding logger.
func NewBuilder(t testing.TB, cfg *config.Config) *manifest.Builder {
	t.Helper()
	return manifest.NewBuilder(cfg, NewDetector(cfg), NewScanner(cfg), logging.NewNop())
}

// NewBuilderWithScanner is NewBuilder with a caller-supplied lister, letting
// tests inject races between enumeration and processing.
func NewBuilderWithScanner(t testing.TB, cfg *config.Config, lister manifest.Lister) *manifest.Builder {
	t.Helper()
	return manifest.NewBuilder(cfg, NewDetector(cfg), lister, logging.NewNop())
}

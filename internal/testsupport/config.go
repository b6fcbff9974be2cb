package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"ferry/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Timing knobs are shrunk so stability waits and retries finish quickly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDir = filepath.Join(base, "source")
	cfgVal.Paths.Target = filepath.Join(base, "target")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Stability.Threshold = 0
	cfgVal.Stability.PollInterval = 1
	cfgVal.Transfer.RetryDelay = 0

	for _, dir := range []string{cfgVal.Paths.SourceDir, cfgVal.Paths.Target, cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMode sets the run mode on the test config.
func WithMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.Mode = mode
	}
}

// WithTarget overrides the destination target on the test config.
func WithTarget(target string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Target = target
	}
}

// WithRetries sets the copy retry policy on the test config.
func WithRetries(count, delaySeconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transfer.RetryCount = count
		b.cfg.Transfer.RetryDelay = delaySeconds
	}
}

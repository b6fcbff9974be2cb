package runner

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"ferry/internal/config"
	"ferry/internal/destination"
	"ferry/internal/journal"
	"ferry/internal/logging"
	"ferry/internal/manifest"
	"ferry/internal/notify"
	"ferry/internal/pipeline"
	"ferry/internal/preflight"
	"ferry/internal/scan"
	"ferry/internal/stability"
	"ferry/internal/transfer"
	"ferry/internal/watch"
)

// Options configures process runtime behavior.
type Options struct {
	// Mode overrides the configured run mode when non-empty.
	Mode        string
	LogLevel    string
	Development bool
}

// Run starts one Ferry process: logger, lock, journal, destination writer,
// then either a single cron pass or the trigger watch loop until a signal.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	mode := strings.TrimSpace(opts.Mode)
	if mode == "" {
		mode = cfg.Run.Mode
	}
	switch mode {
	case config.ModeCron, config.ModeTrigger:
	default:
		return fmt.Errorf("run mode: unsupported value %q (expected %q or %q)", mode, config.ModeCron, config.ModeTrigger)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("ferry-%s.log", runID))
	logger, err := logging.New(logging.Options{
		Level:            opts.LogLevel,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Development:      opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update ferry.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "ferry-*.log", Exclude: []string{logPath}},
	)

	lock := flock.New(LockPath(cfg))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another ferry instance holds %s", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	logger.Info("ferry started",
		logging.String("mode", mode),
		logging.String("source_dir", cfg.Paths.SourceDir),
		logging.String("target", cfg.Paths.Target),
		logging.String("lock", lock.Path()),
	)

	for _, result := range preflight.RunAll(cfg) {
		if !result.Passed {
			logger.Warn("preflight check failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
				logging.String(logging.FieldImpact, "passes may fail until this is resolved"),
			)
		}
	}

	jrnl, err := journal.Open(cfg)
	if err != nil {
		logger.Warn("journal unavailable; passes will not be recorded", logging.Error(err))
		jrnl = nil
	}
	defer jrnl.Close()

	writer, err := destination.Resolve(cfg)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}
	defer writer.Close()

	detector := stability.Detector{
		PollInterval: time.Duration(cfg.Stability.PollInterval) * time.Second,
		Threshold:    time.Duration(cfg.Stability.Threshold) * time.Second,
		MaxWait:      time.Duration(cfg.Stability.MaxWait) * time.Second,
	}
	scanner := scan.Scanner{
		Dir:            cfg.Paths.SourceDir,
		TriggerName:    cfg.Run.TriggerName,
		ManifestPrefix: cfg.Manifest.Prefix,
		Ignore:         cfg.Transfer.Ignore,
	}
	notifier := notify.NewService(cfg)
	builder := manifest.NewBuilder(cfg, detector, scanner, logger)
	engine := transfer.NewEngine(cfg, detector, scanner, writer, jrnl, logger)
	pipe := pipeline.New(cfg, builder, engine, jrnl, notifier, logger)

	switch mode {
	case config.ModeCron:
		_, err := pipe.RunOnce(signalCtx, config.ModeCron)
		if err != nil && signalCtx.Err() != nil {
			logger.Info("ferry interrupted")
			return nil
		}
		return err
	default:
		watcher := watch.New(cfg, detector, func(ctx context.Context, trigger string) error {
			_, err := pipe.RunOnce(ctx, trigger)
			return err
		}, logger)
		err := watcher.Run(signalCtx)
		if signalCtx.Err() != nil {
			logger.Info("ferry shutting down")
			return nil
		}
		return err
	}
}

// LockPath returns the flock path guarding single-instance execution.
func LockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, "ferry.lock")
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "ferry.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

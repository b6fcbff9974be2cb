package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ferry/internal/config"
	"ferry/internal/logging"
	"ferry/internal/stability"
)

// ProcessFunc runs one pass in response to a trigger marker.
type ProcessFunc func(ctx context.Context, trigger string) error

// Watcher polls the source directory for the trigger marker file and runs
// the process callback each time one appears. The marker is deleted after
// the pass; a marker that cannot be deleted is logged and triggers again on
// the next poll, which the idempotent pass absorbs.
type Watcher struct {
	cfg      *config.Config
	detector stability.Detector
	process  ProcessFunc
	logger   *slog.Logger

	// PollInterval is how often the marker path is stat'd. New seeds it from
	// the stability poll interval.
	PollInterval time.Duration
}

// New builds a watcher over the configured source directory.
func New(cfg *config.Config, detector stability.Detector, process ProcessFunc, logger *slog.Logger) *Watcher {
	interval := time.Duration(cfg.Stability.PollInterval) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		cfg:          cfg,
		detector:     detector,
		process:      process,
		logger:       logging.NewComponentLogger(logger, "watch"),
		PollInterval: interval,
	}
}

// Run loops until the context is cancelled, which is the only error it
// returns. Pass failures are logged and the loop keeps waiting.
func (w *Watcher) Run(ctx context.Context) error {
	triggerPath := filepath.Join(w.cfg.Paths.SourceDir, w.cfg.Run.TriggerName)
	w.logger.Info("waiting for trigger",
		logging.String("trigger_path", triggerPath),
		logging.Duration("poll_interval", w.PollInterval),
	)

	for {
		if w.markerPresent(triggerPath) {
			if err := w.handleTrigger(ctx, triggerPath); err != nil {
				return err
			}
			w.logger.Info("waiting for trigger", logging.String("trigger_path", triggerPath))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.PollInterval):
		}
	}
}

func (w *Watcher) markerPresent(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// handleTrigger settles the marker, runs one pass, and removes the marker.
// Only a context cancellation propagates out.
func (w *Watcher) handleTrigger(ctx context.Context, triggerPath string) error {
	if w.cfg.Stability.Enabled {
		// The producer may still be writing the marker itself.
		if err := w.detector.Wait(ctx, triggerPath); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Debug("trigger vanished before it settled", logging.Error(err))
			return nil
		}
	}

	w.logger.Info("trigger detected; starting pass",
		logging.String(logging.FieldEventType, "trigger_detected"),
	)
	if err := w.process(ctx, config.ModeTrigger); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.logger.Error("pass failed; resuming watch", logging.Error(err))
	}

	if err := os.Remove(triggerPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		w.logger.Error("trigger marker could not be removed; it will fire again",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check source directory permissions"),
		)
	}
	return nil
}

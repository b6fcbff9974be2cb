package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ferry/internal/config"
	"ferry/internal/journal"
	"ferry/internal/logging"
	"ferry/internal/manifest"
	"ferry/internal/notify"
	"ferry/internal/transfer"
)

// Summary reports the outcome of a single pass.
type Summary struct {
	PassID       string
	Trigger      string
	Found        int
	Copied       int
	CopyFailed   int
	ManifestPath string
	Duration     time.Duration
}

// NothingToDo reports whether the pass saw an empty source directory.
func (s Summary) NothingToDo() bool { return s.Found == 0 }

// Pipeline runs one complete pass: manifest the source directory, then copy
// its files to the destination. Per-file failures are absorbed; the pass
// itself fails only on pass-level conditions such as the manifest artifact
// not being writable.
type Pipeline struct {
	cfg      *config.Config
	builder  *manifest.Builder
	engine   *transfer.Engine
	journal  *journal.Journal
	notifier notify.Service
	logger   *slog.Logger
}

// New assembles a pipeline from already-wired components. The journal may be
// nil and the notifier may be a noop.
func New(cfg *config.Config, builder *manifest.Builder, engine *transfer.Engine, jrnl *journal.Journal, notifier notify.Service, logger *slog.Logger) *Pipeline {
	if notifier == nil {
		notifier = notify.NewService(cfg)
	}
	return &Pipeline{
		cfg:      cfg,
		builder:  builder,
		engine:   engine,
		journal:  jrnl,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// RunOnce performs one pass. trigger names what started it ("cron",
// "trigger", "manual") for the journal and logs.
func (p *Pipeline) RunOnce(ctx context.Context, trigger string) (Summary, error) {
	started := time.Now()
	summary := Summary{
		PassID:  uuid.NewString(),
		Trigger: trigger,
	}

	logger := p.logger.With(logging.String(logging.FieldPassID, summary.PassID))
	logger.Info("pass started",
		logging.String("trigger", trigger),
		logging.String("source_dir", p.cfg.Paths.SourceDir),
		logging.String("target", p.cfg.Paths.Target),
	)

	if err := p.journal.BeginPass(ctx, journal.Pass{
		ID:          summary.PassID,
		Mode:        trigger,
		SourceDir:   p.cfg.Paths.SourceDir,
		Target:      p.cfg.Paths.Target,
		TriggerName: p.cfg.Run.TriggerName,
		StartedAt:   started,
	}); err != nil {
		logger.Warn("pass not journaled", logging.Error(err))
	}

	built, err := p.builder.Build(ctx)
	if err != nil {
		return p.finish(ctx, logger, summary, started, err)
	}
	summary.Found = built.Found

	if built.Found == 0 {
		logger.Info("nothing to do; source directory has no candidates")
		return p.finish(ctx, logger, summary, started, nil)
	}

	manifestPath, err := manifest.Write(p.cfg.Paths.SourceDir, p.cfg.Manifest.Prefix, built.Manifest)
	if err != nil {
		err = fmt.Errorf("persist manifest: %w", err)
		return p.finish(ctx, logger, summary, started, err)
	}
	summary.ManifestPath = manifestPath
	logger.Info("manifest written",
		logging.String("manifest", manifestPath),
		logging.Int("entries", len(built.Manifest.Files)),
	)

	report, err := p.engine.CopyAll(ctx, summary.PassID)
	summary.Copied = report.Succeeded
	summary.CopyFailed = report.Failed
	if err != nil {
		return p.finish(ctx, logger, summary, started, err)
	}

	return p.finish(ctx, logger, summary, started, nil)
}

// finish closes out the pass regardless of outcome: journal row, summary
// log, optional notification.
func (p *Pipeline) finish(ctx context.Context, logger *slog.Logger, summary Summary, started time.Time, runErr error) (Summary, error) {
	summary.Duration = time.Since(started)

	if err := p.journal.FinishPass(ctx, summary.PassID, summary.Found, summary.Copied, summary.CopyFailed, summary.ManifestPath); err != nil {
		logger.Warn("pass completion not journaled", logging.Error(err))
	}

	if runErr != nil {
		logger.Error("pass failed",
			logging.Error(runErr),
			logging.Int("found", summary.Found),
			logging.Int("copied", summary.Copied),
			logging.Int("copy_failed", summary.CopyFailed),
		)
		if ctx.Err() == nil {
			if err := p.notifier.NotifyPassFailed(ctx, runErr, "pass"); err != nil {
				logger.Warn("failure notification not delivered", logging.Error(err))
			}
		}
		return summary, runErr
	}

	logger.Info("pass finished",
		logging.Int("found", summary.Found),
		logging.Int("copied", summary.Copied),
		logging.Int("copy_failed", summary.CopyFailed),
		logging.String("manifest", summary.ManifestPath),
		logging.Duration("duration", summary.Duration),
	)
	if !summary.NothingToDo() {
		if err := p.notifier.NotifyPassCompleted(ctx, summary.Found, summary.Copied, summary.CopyFailed, summary.Duration); err != nil {
			logger.Warn("completion notification not delivered", logging.Error(err))
		}
	}
	return summary, nil
}

package transfer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"ferry/internal/config"
	"ferry/internal/destination"
	"ferry/internal/fingerprint"
	"ferry/internal/journal"
	"ferry/internal/logging"
	"ferry/internal/scan"
	"ferry/internal/stability"
)

// Report aggregates one copy pass over the source directory.
type Report struct {
	Found     int
	Succeeded int
	Failed    int
}

// Lister enumerates the candidates of a copy pass.
type Lister interface {
	List() ([]scan.Candidate, error)
}

// Engine moves candidate files to the destination one at a time. Each file
// commits in a fixed order: hash the source, stream it to the destination,
// optionally verify the written digest, then delete the source. A file whose
// source still exists has not been committed.
type Engine struct {
	cfg      *config.Config
	detector stability.Detector
	scanner  Lister
	writer   destination.Writer
	journal  *journal.Journal
	logger   *slog.Logger
}

// NewEngine wires a copy engine from the shared configuration. The journal
// may be nil; accounting is then skipped.
func NewEngine(cfg *config.Config, detector stability.Detector, scanner Lister, writer destination.Writer, jrnl *journal.Journal, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		detector: detector,
		scanner:  scanner,
		writer:   writer,
		journal:  jrnl,
		logger:   logging.NewComponentLogger(logger, "transfer"),
	}
}

// CopyAll enumerates the source directory fresh and copies every candidate.
// Single-file failures are counted and the batch continues; the only error
// returned is a context cancellation.
func (e *Engine) CopyAll(ctx context.Context, passID string) (Report, error) {
	var report Report

	candidates, err := e.scanner.List()
	if err != nil {
		e.logger.Error("source directory unavailable; nothing to copy",
			logging.Error(err),
			logging.String(logging.FieldEventType, "scan_failed"),
		)
		return report, nil
	}
	report.Found = len(candidates)
	if report.Found == 0 {
		return report, nil
	}

	if err := e.writer.EnsureDir(ctx, ""); err != nil {
		e.logger.Warn("destination root could not be prepared",
			logging.Error(err),
			logging.String("writer", e.writer.Kind()),
		)
	}

	for _, candidate := range candidates {
		record, err := e.copyOne(ctx, passID, candidate)
		e.recordTransfer(ctx, record)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Failed++
			continue
		}
		report.Succeeded++
	}
	return report, nil
}

// copyOne retries the full commit sequence for a single file. A vanished
// source fails immediately without burning retries; every other failure
// sleeps RetryDelay and starts over from the stability wait.
func (e *Engine) copyOne(ctx context.Context, passID string, candidate scan.Candidate) (journal.Transfer, error) {
	record := journal.Transfer{
		PassID:    passID,
		Name:      candidate.Name,
		Status:    journal.StatusFailed,
		StartedAt: time.Now(),
	}

	attempts := e.cfg.Transfer.RetryCount
	retryDelay := time.Duration(e.cfg.Transfer.RetryDelay) * time.Second

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		record.Attempts = attempt
		err := e.attempt(ctx, candidate, &record)
		if err == nil {
			record.Status = journal.StatusCopied
			record.Error = ""
			record.FinishedAt = time.Now()
			e.logger.Info("file copied",
				logging.String(logging.FieldFile, candidate.Name),
				logging.Int64("size", record.Size),
				logging.String("destination", record.Destination),
				logging.Int(logging.FieldAttempt, attempt),
			)
			return record, nil
		}
		lastErr = err
		record.Error = err.Error()

		if ctx.Err() != nil {
			record.FinishedAt = time.Now()
			return record, err
		}
		if isVanished(err) {
			e.logger.Warn("file vanished before it could be copied",
				logging.String(logging.FieldFile, candidate.Name),
				logging.String(logging.FieldEventType, "file_vanished"),
			)
			record.FinishedAt = time.Now()
			return record, err
		}

		e.logger.Error("copy attempt failed",
			logging.String(logging.FieldFile, candidate.Name),
			logging.Int(logging.FieldAttempt, attempt),
			logging.Error(err),
			logging.String(logging.FieldEventType, "copy_failed"),
		)
		if attempt < attempts {
			select {
			case <-ctx.Done():
				record.FinishedAt = time.Now()
				return record, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}

	record.FinishedAt = time.Now()
	e.logger.Error("file failed after all retries; source left in place",
		logging.String(logging.FieldFile, candidate.Name),
		logging.Int(logging.FieldAttempt, attempts),
		logging.Error(lastErr),
		logging.String(logging.FieldErrorHint, "source file remains in the source directory for the next pass"),
	)
	return record, lastErr
}

// attempt runs the commit sequence once, updating the journal record with
// whatever it learned before failing.
func (e *Engine) attempt(ctx context.Context, candidate scan.Candidate, record *journal.Transfer) error {
	if e.cfg.Stability.Enabled {
		if err := e.detector.Wait(ctx, candidate.Path); err != nil {
			return err
		}
	}

	digest, err := fingerprint.File(candidate.Path)
	if err != nil {
		return fmt.Errorf("hash source: %w", err)
	}
	record.SHA256 = digest

	result, err := e.writer.WriteFile(ctx, candidate.Path, candidate.Name)
	if err != nil {
		return fmt.Errorf("write to %s destination: %w", e.writer.Kind(), err)
	}
	record.Size = result.Size
	record.Destination = result.Path

	if e.cfg.Transfer.Verify && result.SHA256 != digest {
		if removeErr := e.writer.Remove(ctx, candidate.Name); removeErr != nil {
			e.logger.Warn("mismatched destination file could not be removed",
				logging.String(logging.FieldFile, candidate.Name),
				logging.Error(removeErr),
			)
		}
		return fmt.Errorf("verify %s: destination digest %s does not match source %s", candidate.Name, result.SHA256, digest)
	}

	if err := os.Remove(candidate.Path); err != nil {
		return fmt.Errorf("delete source after copy: %w", err)
	}
	return nil
}

func (e *Engine) recordTransfer(ctx context.Context, record journal.Transfer) {
	if err := e.journal.RecordTransfer(ctx, record); err != nil {
		e.logger.Warn("journal row not recorded",
			logging.String(logging.FieldFile, record.Name),
			logging.Error(err),
		)
	}
}

// isVanished reports whether the error means the source file disappeared,
// which makes retrying pointless.
func isVanished(err error) bool {
	return errors.Is(err, stability.ErrVanished) || errors.Is(err, fs.ErrNotExist)
}

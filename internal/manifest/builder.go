package manifest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"ferry/internal/config"
	"ferry/internal/fingerprint"
	"ferry/internal/logging"
	"ferry/internal/scan"
	"ferry/internal/stability"
)

// Result aggregates one manifest-building pass. Found counts every candidate
// the scanner produced; Succeeded entries appear in Manifest.Files.
type Result struct {
	Found     int
	Succeeded int
	Failed    int
	Manifest  Manifest
}

// Lister enumerates the candidates of a pass.
type Lister interface {
	List() ([]scan.Candidate, error)
}

// Builder assembles a manifest over the source directory. Single-file
// failures never abort the batch; they are counted and logged.
type Builder struct {
	cfg      *config.Config
	detector stability.Detector
	scanner  Lister
	logger   *slog.Logger
}

// NewBuilder wires a builder from the shared configuration.
func NewBuilder(cfg *config.Config, detector stability.Detector, scanner Lister, logger *slog.Logger) *Builder {
	return &Builder{
		cfg:      cfg,
		detector: detector,
		scanner:  scanner,
		logger:   logging.NewComponentLogger(logger, "manifest"),
	}
}

// Build enumerates candidates, waits for each to stabilize, and records
// size, mtime, and SHA-256 per file. An inaccessible source directory is
// degraded to a zero-candidate result. The only error returned is a context
// cancellation.
func (b *Builder) Build(ctx context.Context) (Result, error) {
	result := Result{
		Manifest: Manifest{
			GeneratedAt: time.Now().Unix(),
			SourceDir:   b.cfg.Paths.SourceDir,
			Files:       []Entry{},
		},
	}

	candidates, err := b.scanner.List()
	if err != nil {
		b.logger.Error("source directory unavailable; nothing to do",
			logging.Error(err),
			logging.String(logging.FieldEventType, "scan_failed"),
		)
		return result, nil
	}

	result.Found = len(candidates)
	for _, candidate := range candidates {
		entry, err := b.buildEntry(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed++
			continue
		}
		result.Succeeded++
		result.Manifest.Files = append(result.Manifest.Files, entry)
	}
	return result, nil
}

// buildEntry stats and hashes one candidate, retrying transient read errors
// up to the configured count. A vanished file fails immediately without
// burning retries.
func (b *Builder) buildEntry(ctx context.Context, candidate scan.Candidate) (Entry, error) {
	attempts := b.cfg.Transfer.RetryCount
	retryDelay := time.Duration(b.cfg.Transfer.RetryDelay) * time.Second

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if b.cfg.Stability.Enabled {
			if err := b.detector.Wait(ctx, candidate.Path); err != nil {
				if ctx.Err() != nil {
					return Entry{}, err
				}
				b.logger.Warn("file vanished before it settled",
					logging.String(logging.FieldFile, candidate.Name),
					logging.Error(err),
					logging.String(logging.FieldEventType, "stability_failed"),
				)
				return Entry{}, err
			}
		}

		entry, err := readEntry(candidate)
		if err == nil {
			b.logger.Debug("manifest entry recorded",
				logging.String(logging.FieldFile, candidate.Name),
				logging.Int64("size", entry.Size),
				logging.String("sha256", entry.SHA256),
			)
			return entry, nil
		}
		lastErr = err

		if errors.Is(err, fs.ErrNotExist) {
			b.logger.Warn("file vanished before it could be read",
				logging.String(logging.FieldFile, candidate.Name),
				logging.String(logging.FieldEventType, "file_vanished"),
			)
			return Entry{}, err
		}

		b.logger.Error("manifest entry failed",
			logging.String(logging.FieldFile, candidate.Name),
			logging.Int(logging.FieldAttempt, attempt),
			logging.Error(err),
			logging.String(logging.FieldEventType, "manifest_entry_failed"),
		)
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return Entry{}, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	return Entry{}, lastErr
}

func readEntry(candidate scan.Candidate) (Entry, error) {
	info, err := os.Stat(candidate.Path)
	if err != nil {
		return Entry{}, err
	}
	digest, err := fingerprint.File(candidate.Path)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Name:   candidate.Name,
		Size:   info.Size(),
		MTime:  info.ModTime().Unix(),
		SHA256: digest,
	}, nil
}

package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Pass is one pipeline pass, keyed by its uuid.
type Pass struct {
	ID           string
	Mode         string
	SourceDir    string
	Target       string
	TriggerName  string
	StartedAt    time.Time
	FinishedAt   time.Time
	Found        int
	Succeeded    int
	Failed       int
	ManifestPath string
}

// Transfer is one per-file copy outcome within a pass.
type Transfer struct {
	ID          int64
	PassID      string
	Name        string
	Size        int64
	SHA256      string
	Destination string
	Status      string
	Attempts    int
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// BeginPass records the start of a pass.
func (j *Journal) BeginPass(ctx context.Context, pass Pass) error {
	if j == nil {
		return nil
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO passes (id, mode, source_dir, target, trigger_name, started_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		pass.ID, pass.Mode, pass.SourceDir, pass.Target, pass.TriggerName,
		pass.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert pass: %w", err)
	}
	return nil
}

// FinishPass records the aggregate outcome of a pass.
func (j *Journal) FinishPass(ctx context.Context, id string, found, succeeded, failed int, manifestPath string) error {
	if j == nil {
		return nil
	}
	_, err := j.db.ExecContext(ctx,
		`UPDATE passes SET finished_at = ?, found = ?, succeeded = ?, failed = ?, manifest_path = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), found, succeeded, failed, manifestPath, id,
	)
	if err != nil {
		return fmt.Errorf("finish pass: %w", err)
	}
	return nil
}

// RecordTransfer appends one per-file outcome.
func (j *Journal) RecordTransfer(ctx context.Context, transfer Transfer) error {
	if j == nil {
		return nil
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO transfers (pass_id, name, size, sha256, destination, status, attempts, error, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		transfer.PassID, transfer.Name, transfer.Size, transfer.SHA256, transfer.Destination,
		transfer.Status, transfer.Attempts, transfer.Error,
		transfer.StartedAt.UTC().Format(time.RFC3339Nano),
		transfer.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// RecentPasses returns up to limit passes, newest first.
func (j *Journal) RecentPasses(ctx context.Context, limit int) ([]Pass, error) {
	if j == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, mode, source_dir, target, trigger_name, started_at, COALESCE(finished_at, ''),
                found, succeeded, failed, manifest_path
         FROM passes ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}
	defer rows.Close()

	var passes []Pass
	for rows.Next() {
		pass, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, pass)
	}
	return passes, rows.Err()
}

// TransfersForPass returns the per-file rows of one pass in insertion order.
func (j *Journal) TransfersForPass(ctx context.Context, passID string) ([]Transfer, error) {
	if j == nil {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, pass_id, name, size, sha256, destination, status, attempts, error, started_at, finished_at
         FROM transfers WHERE pass_id = ? ORDER BY id`, passID)
	if err != nil {
		return nil, fmt.Errorf("query transfers: %w", err)
	}
	defer rows.Close()
	return collectTransfers(rows)
}

// FailedTransfers returns up to limit failed per-file rows, newest first.
func (j *Journal) FailedTransfers(ctx context.Context, limit int) ([]Transfer, error) {
	if j == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, pass_id, name, size, sha256, destination, status, attempts, error, started_at, finished_at
         FROM transfers WHERE status = ? ORDER BY id DESC LIMIT ?`, StatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed transfers: %w", err)
	}
	defer rows.Close()
	return collectTransfers(rows)
}

func scanPass(rows *sql.Rows) (Pass, error) {
	var pass Pass
	var startedAt, finishedAt string
	if err := rows.Scan(&pass.ID, &pass.Mode, &pass.SourceDir, &pass.Target, &pass.TriggerName,
		&startedAt, &finishedAt, &pass.Found, &pass.Succeeded, &pass.Failed, &pass.ManifestPath); err != nil {
		return Pass{}, fmt.Errorf("scan pass: %w", err)
	}
	pass.StartedAt = parseTimestamp(startedAt)
	pass.FinishedAt = parseTimestamp(finishedAt)
	return pass, nil
}

func collectTransfers(rows *sql.Rows) ([]Transfer, error) {
	var transfers []Transfer
	for rows.Next() {
		var transfer Transfer
		var startedAt, finishedAt string
		if err := rows.Scan(&transfer.ID, &transfer.PassID, &transfer.Name, &transfer.Size,
			&transfer.SHA256, &transfer.Destination, &transfer.Status, &transfer.Attempts,
			&transfer.Error, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		transfer.StartedAt = parseTimestamp(startedAt)
		transfer.FinishedAt = parseTimestamp(finishedAt)
		transfers = append(transfers, transfer)
	}
	return transfers, rows.Err()
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

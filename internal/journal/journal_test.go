package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"ferry/internal/journal"
	"ferry/internal/testsupport"
)

func openJournal(t *testing.T) *journal.Journal {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	j, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestPassLifecycle(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	passID := uuid.NewString()
	err := j.BeginPass(ctx, journal.Pass{
		ID:          passID,
		Mode:        "cron",
		SourceDir:   "/data/inbox",
		Target:      "/data/outbox",
		TriggerName: "trigger.txt",
		StartedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("BeginPass: %v", err)
	}
	if err := j.FinishPass(ctx, passID, 3, 2, 1, "/data/inbox/manifest-1.json"); err != nil {
		t.Fatalf("FinishPass: %v", err)
	}

	passes, err := j.RecentPasses(ctx, 10)
	if err != nil {
		t.Fatalf("RecentPasses: %v", err)
	}
	if len(passes) != 1 {
		t.Fatalf("passes = %d, want 1", len(passes))
	}
	pass := passes[0]
	if pass.ID != passID || pass.Found != 3 || pass.Succeeded != 2 || pass.Failed != 1 {
		t.Fatalf("pass = %+v", pass)
	}
	if pass.ManifestPath != "/data/inbox/manifest-1.json" {
		t.Fatalf("manifest path = %q", pass.ManifestPath)
	}
	if pass.FinishedAt.IsZero() {
		t.Fatal("finished_at not recorded")
	}
}

func TestTransferAccounting(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	passID := uuid.NewString()
	if err := j.BeginPass(ctx, journal.Pass{ID: passID, Mode: "trigger", SourceDir: "/in", Target: "/out", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	records := []journal.Transfer{
		{PassID: passID, Name: "a.bin", Size: 10, SHA256: "aa", Destination: "/out/a.bin", Status: journal.StatusCopied, Attempts: 1, StartedAt: now, FinishedAt: now},
		{PassID: passID, Name: "b.bin", Size: 20, Destination: "/out/b.bin", Status: journal.StatusFailed, Attempts: 3, Error: "io timeout", StartedAt: now, FinishedAt: now},
	}
	for _, record := range records {
		if err := j.RecordTransfer(ctx, record); err != nil {
			t.Fatalf("RecordTransfer: %v", err)
		}
	}

	transfers, err := j.TransfersForPass(ctx, passID)
	if err != nil {
		t.Fatalf("TransfersForPass: %v", err)
	}
	if len(transfers) != 2 {
		t.Fatalf("transfers = %d, want 2", len(transfers))
	}
	if transfers[0].Name != "a.bin" || transfers[0].Status != journal.StatusCopied {
		t.Fatalf("first transfer = %+v", transfers[0])
	}
	if transfers[1].Error != "io timeout" || transfers[1].Attempts != 3 {
		t.Fatalf("second transfer = %+v", transfers[1])
	}

	failed, err := j.FailedTransfers(ctx, 10)
	if err != nil {
		t.Fatalf("FailedTransfers: %v", err)
	}
	if len(failed) != 1 || failed[0].Name != "b.bin" {
		t.Fatalf("failed = %+v", failed)
	}
}

func TestNilJournalIsNoop(t *testing.T) {
	var j *journal.Journal
	ctx := context.Background()

	if err := j.BeginPass(ctx, journal.Pass{ID: "x"}); err != nil {
		t.Fatalf("BeginPass on nil: %v", err)
	}
	if err := j.RecordTransfer(ctx, journal.Transfer{}); err != nil {
		t.Fatalf("RecordTransfer on nil: %v", err)
	}
	if err := j.FinishPass(ctx, "x", 0, 0, 0, ""); err != nil {
		t.Fatalf("FinishPass on nil: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close on nil: %v", err)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := journal.Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
}

package manifest_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"ferry/internal/scan"
	"ferry/internal/testsupport"
)

func TestBuildRecordsEveryStableFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Stability.Enabled = false

	contents := map[string][]byte{
		"alpha.bin": []byte("alpha payload"),
		"beta.bin":  []byte("beta payload"),
		"gamma.bin": []byte("gamma payload"),
	}
	for name, data := range contents {
		if err := os.WriteFile(filepath.Join(cfg.Paths.SourceDir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	builder := testsupport.NewBuilder(t, cfg)
	result, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if result.Found != 3 || result.Succeeded != 3 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Manifest.Files) != 3 {
		t.Fatalf("entries = %d, want 3", len(result.Manifest.Files))
	}
	for _, entry := range result.Manifest.Files {
		data := contents[entry.Name]
		if entry.Size != int64(len(data)) {
			t.Fatalf("entry %s size = %d, want %d", entry.Name, entry.Size, len(data))
		}
		sum := sha256.Sum256(data)
		if entry.SHA256 != hex.EncodeToString(sum[:]) {
			t.Fatalf("entry %s digest mismatch", entry.Name)
		}
		if entry.MTime == 0 {
			t.Fatalf("entry %s missing mtime", entry.Name)
		}
	}
}

func TestBuildMissingSourceDirYieldsZeroCandidates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.SourceDir = filepath.Join(cfg.Paths.SourceDir, "never-created")

	builder := testsupport.NewBuilder(t, cfg)
	result, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Found != 0 || result.Succeeded != 0 || result.Failed != 0 {
		t.Fatalf("result = %+v, want all zero", result)
	}
}

func TestBuildCountsVanishedFileAsFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Stability.Enabled = false

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.SourceDir, "stays.bin"), 64)

	// Listed, then removed before the builder reaches it.
	builder := testsupport.NewBuilderWithScanner(t, cfg, vanishingScanner{
		dir:  cfg.Paths.SourceDir,
		doom: "goes.bin",
	})
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.SourceDir, "goes.bin"), 64)

	result, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Found != 2 || result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("result = %+v", result)
	}
	for _, entry := range result.Manifest.Files {
		if entry.Name == "goes.bin" {
			t.Fatal("vanished file must not appear in the manifest")
		}
	}
}

// vanishingScanner removes the doomed file after listing it, simulating a
// producer deleting a file between enumeration and processing.
type vanishingScanner struct {
	dir  string
	doom string
}

func (v vanishingScanner) List() ([]scan.Candidate, error) {
	candidates, err := scan.Scanner{Dir: v.dir}.List()
	if err != nil {
		return nil, err
	}
	_ = os.Remove(filepath.Join(v.dir, v.doom))
	return candidates, nil
}

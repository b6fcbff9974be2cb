package destination

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ferry/internal/config"
)

func TestResolveClassifiesTarget(t *testing.T) {
	cfg := &config.Config{}
	cfg.Paths.Target = t.TempDir()

	writer, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer writer.Close()
	if writer.Kind() != "local" {
		t.Fatalf("Kind = %q, want local", writer.Kind())
	}

	cfg.Paths.Target = "smb://nas/backups/ingest"
	writer, err = Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve smb: %v", err)
	}
	defer writer.Close()
	if writer.Kind() != "smb" {
		t.Fatalf("Kind = %q, want smb", writer.Kind())
	}
}

func TestResolveRejectsBadSMBAddress(t *testing.T) {
	cfg := &config.Config{}
	cfg.Paths.Target = "smb://nas"
	if _, err := Resolve(cfg); err == nil {
		t.Fatal("expected error for share-less smb address")
	}
}

func TestLocalWriterRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "nested", "target")

	src := filepath.Join(srcDir, "payload.bin")
	content := []byte("local write")
	if err := os.WriteFile(src, content, 0o640); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(src, past, past); err != nil {
		t.Fatal(err)
	}

	w := &localWriter{root: dstDir}
	ctx := context.Background()

	if err := w.EnsureDir(ctx, ""); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	res, err := w.WriteFile(ctx, src, "payload.bin")
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if res.Size != int64(len(content)) {
		t.Fatalf("Size = %d", res.Size)
	}
	if res.SHA256 == "" {
		t.Fatal("missing digest")
	}

	got, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("destination content = %q", got)
	}

	info, err := os.Stat(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("perm = %o, want 640", info.Mode().Perm())
	}
	if !info.ModTime().Truncate(time.Second).Equal(past) {
		t.Fatalf("mtime = %v, want %v", info.ModTime(), past)
	}

	if err := w.Remove(ctx, "payload.bin"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(res.Path); !os.IsNotExist(err) {
		t.Fatal("Remove left the destination file")
	}
}

func TestLocalWriterEnsureDirIdempotent(t *testing.T) {
	w := &localWriter{root: t.TempDir()}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := w.EnsureDir(ctx, "a/b/c"); err != nil {
			t.Fatalf("EnsureDir pass %d: %v", i, err)
		}
	}
}

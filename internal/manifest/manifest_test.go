package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteArtifactFormat(t *testing.T) {
	dir := t.TempDir()
	m := Manifest{
		GeneratedAt: 1700000000,
		SourceDir:   "/data/inbox",
		Files: []Entry{
			{Name: "a.bin", Size: 3, MTime: 1699999999, SHA256: "abc"},
		},
	}

	path, err := Write(dir, "manifest", m)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "manifest-1700000000.json" {
		t.Fatalf("artifact name = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	for _, key := range []string{"generated_at", "source_dir", "files"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("artifact missing %q: %s", key, data)
		}
	}
	files := decoded["files"].([]any)
	entry := files[0].(map[string]any)
	for _, key := range []string{"name", "size", "mtime", "sha256"} {
		if _, ok := entry[key]; !ok {
			t.Fatalf("entry missing %q: %s", key, data)
		}
	}
}

func TestWriteSameSecondCollision(t *testing.T) {
	dir := t.TempDir()
	m := Manifest{GeneratedAt: 1700000000, SourceDir: "/data/inbox", Files: []Entry{}}

	first, err := Write(dir, "manifest", m)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Write(dir, "manifest", m)
	if err != nil {
		t.Fatal(err)
	}
	third, err := Write(dir, "manifest", m)
	if err != nil {
		t.Fatal(err)
	}

	if first == second || second == third {
		t.Fatalf("expected distinct artifacts, got %s, %s, %s", first, second, third)
	}
	if !strings.HasSuffix(second, "manifest-1700000000-1.json") {
		t.Fatalf("second artifact = %s", second)
	}
	if !strings.HasSuffix(third, "manifest-1700000000-2.json") {
		t.Fatalf("third artifact = %s", third)
	}
}

func TestWriteEmptyFilesStaysArray(t *testing.T) {
	dir := t.TempDir()
	m := Manifest{GeneratedAt: 1, SourceDir: "/x", Files: []Entry{}}

	path, err := Write(dir, "manifest", m)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"files": []`) {
		t.Fatalf("files should serialize as an empty array: %s", data)
	}
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path with size bytes of deterministic content derived
// from the file name, so files with different names carry different bytes
// and digest comparisons in tests are meaningful. A size <= 0 writes a
// single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	seed := []byte(filepath.Base(path))
	content := make([]byte, size)
	for i := range content {
		content[i] = seed[i%len(seed)] + byte(i/len(seed))
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

package destination

import (
	"context"
	"os"
	"path/filepath"

	"ferry/internal/fileutil"
)

// localWriter copies into a directory on the local filesystem, preserving
// permission bits and modification time.
type localWriter struct {
	root string
}

func (w *localWriter) Kind() string { return "local" }

func (w *localWriter) EnsureDir(_ context.Context, rel string) error {
	return os.MkdirAll(filepath.Join(w.root, filepath.FromSlash(rel)), 0o755)
}

func (w *localWriter) WriteFile(_ context.Context, src, name string) (WriteResult, error) {
	dst := filepath.Join(w.root, name)
	digest, written, err := fileutil.CopyFileDigest(src, dst)
	if err != nil {
		return WriteResult{}, err
	}
	if err := fileutil.CloneMetadata(src, dst); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Path: dst, Size: written, SHA256: digest}, nil
}

func (w *localWriter) Remove(_ context.Context, name string) error {
	return os.Remove(filepath.Join(w.root, name))
}

func (w *localWriter) Close() error { return nil }

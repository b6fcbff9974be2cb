package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Entry records one candidate file. Immutable once created; entries are
// written only as part of a Manifest artifact.
type Entry struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	MTime  int64  `json:"mtime"`
	SHA256 string `json:"sha256"`
}

// Manifest is the artifact persisted to the source directory for each
// non-empty pass. It is produced only; Ferry never reads one back.
type Manifest struct {
	GeneratedAt int64   `json:"generated_at"`
	SourceDir   string  `json:"source_dir"`
	Files       []Entry `json:"files"`
}

// Write persists m to dir as <prefix>-<generated_at>.json. When a pass lands
// in the same second as a previous one, a -<n> counter is appended before the
// extension so artifacts never collide.
func Write(dir, prefix string, m Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')

	base := fmt.Sprintf("%s-%d", prefix, m.GeneratedAt)
	name := base + ".json"
	for n := 1; ; n++ {
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				name = fmt.Sprintf("%s-%d.json", base, n)
				continue
			}
			return "", fmt.Errorf("create manifest: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write manifest: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close manifest: %w", err)
		}
		return path, nil
	}
}

package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Candidate is a regular file in the source directory eligible for the
// current pass. Candidates are discovered fresh each pass, never cached.
type Candidate struct {
	Path string
	Name string
}

// Scanner enumerates candidate files in a source directory, excluding the
// trigger marker, manifest artifacts from earlier passes, non-regular
// entries, and names matching any ignore pattern.
type Scanner struct {
	Dir            string
	TriggerName    string
	ManifestPrefix string
	Ignore         []string
}

// List returns the candidates in name order. A missing or unreadable source
// directory is returned as an error for the caller to degrade to an empty
// pass.
func (s Scanner) List() ([]Candidate, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory %s: %w", s.Dir, err)
	}

	// os.ReadDir sorts by name, which fixes manifest entry order.
	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		// Symlinks are resolved so a link to a regular file still counts.
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(s.Dir, entry.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		} else if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if name == s.TriggerName {
			continue
		}
		if s.isManifestArtifact(name) {
			continue
		}
		if s.ignored(name) {
			continue
		}
		candidates = append(candidates, Candidate{
			Path: filepath.Join(s.Dir, name),
			Name: name,
		})
	}
	return candidates, nil
}

// isManifestArtifact matches <prefix>-*.json so a copy pass re-enumerating
// the directory leaves the manifest written moments earlier in place.
func (s Scanner) isManifestArtifact(name string) bool {
	prefix := strings.TrimSpace(s.ManifestPrefix)
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(name, prefix+"-") && strings.HasSuffix(name, ".json")
}

func (s Scanner) ignored(name string) bool {
	for _, pattern := range s.Ignore {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

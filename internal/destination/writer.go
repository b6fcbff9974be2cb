package destination

import (
	"context"

	"ferry/internal/config"
)

// WriteResult reports a completed destination write.
type WriteResult struct {
	// Path is the destination location as written, in the writer's own
	// notation (local path or smb address).
	Path string
	// Size is the number of bytes written.
	Size int64
	// SHA256 is the digest of exactly the bytes that were written, computed
	// as they streamed out. Comparing it against the source digest verifies
	// the transfer without re-reading the destination.
	SHA256 string
}

// Writer delivers files to a transfer destination. Implementations are not
// safe for concurrent use; the pipeline calls them from a single goroutine.
type Writer interface {
	// Kind identifies the writer variant ("local" or "smb") for logs.
	Kind() string
	// EnsureDir creates the directory at rel (relative to the target root,
	// "" for the root itself) including intermediates. An already existing
	// directory is not an error.
	EnsureDir(ctx context.Context, rel string) error
	// WriteFile streams the local file src to <target root>/<name>.
	WriteFile(ctx context.Context, src, name string) (WriteResult, error)
	// Remove deletes <target root>/<name>, used to clean up a write that
	// failed verification.
	Remove(ctx context.Context, name string) error
	// Close releases any connection state. Safe to call on a writer that
	// never dialed.
	Close() error
}

// Resolve classifies the configured target once and returns the matching
// writer variant. An smb:// address yields the SMB writer; anything else is
// treated as a local filesystem path.
func Resolve(cfg *config.Config) (Writer, error) {
	if cfg.TargetIsRemote() {
		addr, err := ParseAddress(cfg.Paths.Target)
		if err != nil {
			return nil, err
		}
		return newSMBWriter(addr, cfg.SMB), nil
	}
	return &localWriter{root: cfg.Paths.Target}, nil
}

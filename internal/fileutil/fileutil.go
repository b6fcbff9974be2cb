package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// CopyFileDigest streams src to dst while hashing the bytes as they are
// written, returning the SHA256 of exactly what reached dst and the byte
// count. A short write against the source size is reported as an error and
// dst is removed.
func CopyFileDigest(src, dst string) (string, int64, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", 0, fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		_ = out.Close()
	}()

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, hasher), in)
	if err != nil {
		_ = os.Remove(dst)
		return "", 0, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", 0, err
	}
	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return "", 0, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}

	return hex.EncodeToString(hasher.Sum(nil)), written, nil
}

// CloneMetadata applies src's permission bits and modification time to dst.
// Together with CopyFileDigest this gives copy-with-metadata semantics for
// local destinations.
func CloneMetadata(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod destination: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("set destination times: %w", err)
	}
	return nil
}

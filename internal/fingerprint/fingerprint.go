package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// blockSize is the read granularity. Files are never loaded whole.
const blockSize = 1 << 20

// File returns the lowercase hex SHA-256 digest of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Reader(f)
}

// Reader digests an arbitrary byte stream.
func Reader(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, blockSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

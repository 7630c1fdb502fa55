package packman

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// hashChunkSize bounds the read buffer so hashing is memory-bounded
// regardless of pack size.
const hashChunkSize = 8 * 1024

// HashFile streams the file through sha256 in bounded chunks and returns the
// digest as lowercase hex. The digest depends only on the file's bytes at
// read time, never on its name or metadata.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadable, filepath.Base(path), err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, hashChunkSize)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadable, filepath.Base(path), err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes returns the sha256 of data as lowercase hex.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

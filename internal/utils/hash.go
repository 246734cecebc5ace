package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// FileHash returns the SHA-256 hex digest of the file at path. Used to detect
// duplicate image uploads.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FileStore manages the shared uploads directory: comprobantes, product and
// category images, and generated invoice PDFs. Filenames are generated unique
// so concurrent writers never collide; only the owning service deletes a file.
type FileStore struct {
	baseDir string
}

// New creates a FileStore rooted at baseDir, creating the directory tree if
// it does not exist.
func New(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "comprobantes"), 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// BaseDir returns the root uploads directory.
func (s *FileStore) BaseDir() string {
	return s.baseDir
}

// SaveUpload persists a multipart upload under subdir with a generated unique
// name, preserving the original extension. It returns the stored path
// relative to the process working directory.
func (s *FileStore) SaveUpload(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	name := uuid.New().String() + filepath.Ext(file.Filename)
	dir := s.baseDir
	if subdir != "" {
		dir = filepath.Join(s.baseDir, subdir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	dst := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// Exists reports whether a stored path is present on disk.
func (s *FileStore) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes a stored file. Missing files are not an error; other
// failures are logged and swallowed.
func (s *FileStore) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove stored file")
	}
}

// InvoicePath returns the full path for a generated invoice file name.
func (s *FileStore) InvoicePath(fileName string) string {
	return filepath.Join(s.baseDir, fileName)
}

// ListDir returns the entries directly under a stored subdirectory. Used by
// the duplicate-image check on category uploads.
func (s *FileStore) ListDir(subdir string) ([]string, error) {
	dir := s.baseDir
	if subdir != "" {
		dir = filepath.Join(s.baseDir, subdir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

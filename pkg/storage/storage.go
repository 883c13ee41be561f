package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const uploadsDir = "uploads"

var whitespace = regexp.MustCompile(`\s+`)

// LocalStorage keeps uploaded files under <baseDir>/uploads.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a LocalStorage rooted at baseDir.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// Root returns the directory served as /uploads.
func (s *LocalStorage) Root() string {
	return filepath.Join(s.baseDir, uploadsDir)
}

// IsExternal reports whether url points outside the local store.
func IsExternal(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// InFolder reports whether p is a clean path returned by Save for folder.
func InFolder(p, folder string) bool {
	prefix := uploadsDir + "/" + folder + "/"
	return len(p) > len(prefix) && strings.HasPrefix(p, prefix) && path.Clean(p) == p
}

// Save copies the uploaded file into folder and returns its path relative to
// baseDir, always with forward slashes (uploads/<folder>/<name>).
func (s *LocalStorage) Save(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	destDir := filepath.Join(s.Root(), filepath.Clean("/"+folder))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	name := filepath.Base(file.Filename)
	if name == "" || name == "." || name == "/" {
		name = "file"
	}
	name = uuid.New().String() + "-" + whitespace.ReplaceAllString(name, "_")

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", file.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(destDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	rel, err := filepath.Rel(s.baseDir, dst.Name())
	if err != nil {
		return "", fmt.Errorf("failed to resolve upload path: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// Delete removes a previously saved file. External URLs, empty paths and
// files that are already gone are ignored.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if path == "" || IsExternal(path) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	full := filepath.Join(s.baseDir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	root := s.Root()
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return fmt.Errorf("refusing to delete %q outside of %s", path, root)
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

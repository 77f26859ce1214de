package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// CoverStorage persists uploaded book cover images and hands back the
// relative path stored on the book record.
type CoverStorage interface {
	Save(filename string, r io.Reader) (string, error)
	Remove(path string) error
	Dir() string
}

type localCoverStorage struct {
	dir string
}

// NewLocalCoverStorage writes covers under dir, creating it if needed.
func NewLocalCoverStorage(dir string) (CoverStorage, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &localCoverStorage{dir: dir}, nil
}

func (s *localCoverStorage) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", fmt.Errorf("unsupported cover image type %q", ext)
	}

	name := uuid.NewString() + ext
	dest := filepath.Join(s.dir, name)

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create cover file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}

	return filepath.ToSlash(filepath.Join("uploads", name)), nil
}

func (s *localCoverStorage) Remove(path string) error {
	name := filepath.Base(path)
	if name == "." || name == "/" || name == "default.jpg" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cover file: %w", err)
	}
	return nil
}

func (s *localCoverStorage) Dir() string {
	return s.dir
}

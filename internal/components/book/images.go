package book

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"bookswap/internal/shared/config"
)

type (
	// imageStore persists uploaded cover images and returns the public path
	// they are served from.
	imageStore interface {
		Save(filename string, r io.Reader) (string, error)
	}

	diskImageStore struct {
		dir string
	}
)

// NewImageStore builds the disk-backed store rooted at the configured
// upload directory.
func NewImageStore(cfg *config.Config) (imageStore, error) {
	return newDiskImageStore(cfg.UploadDir)
}

func newDiskImageStore(dir string) (imageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &diskImageStore{dir: dir}, nil
}

// Save writes the image under a fresh uuid name, keeping only the original
// extension. Returned paths are rooted at /uploads so responses can embed
// them directly.
func (s *diskImageStore) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		ext = ".jpg"
	}

	name := uuid.New().String() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return fmt.Sprintf("/uploads/%s", name), nil
}

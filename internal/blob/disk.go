package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore складывает изображения в локальный каталог, ссылка это имя файла.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save полностью записывает файл до возврата (download-then-write).
func (s *DiskStore) Save(ctx context.Context, name string, src io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// имя приходит извне, не даём ему выйти за пределы каталога
	ref := filepath.Base(name)
	if ref == "." || ref == string(filepath.Separator) {
		return "", fmt.Errorf("invalid blob name %q", name)
	}

	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to flush blob: %w", err)
	}

	return ref, nil
}

func (s *DiskStore) Exists(ref string) bool {
	if ref == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, filepath.Base(ref)))
	return err == nil
}

func (s *DiskStore) Open(ref string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", ref, err)
	}
	return f, nil
}

package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"shop_backend/internal/feature/product/usecase"
)

const stagingDir = ".staging"

// DiskStore keeps images as files under a root directory. Staged files live in
// a hidden subdirectory that is never served.
type DiskStore struct {
	root     string
	staging  string
	maxBytes int64
}

var _ usecase.ImageStore = (*DiskStore)(nil)

// NewDiskStore creates root and its staging directory when missing.
func NewDiskStore(root string, maxBytes int64) (*DiskStore, error) {
	staging := filepath.Join(root, stagingDir)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &DiskStore{root: root, staging: staging, maxBytes: maxBytes}, nil
}

func (s *DiskStore) Stage(_ context.Context, src io.Reader) (string, error) {
	data, _, ext, err := readImage(src, s.maxBytes)
	if err != nil {
		return "", err
	}
	name := newName(ext)
	if err := os.WriteFile(filepath.Join(s.staging, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write staged image: %w", err)
	}
	return name, nil
}

// Commit moves staged files into the root. On failure the files already moved
// are put back so the caller can discard the whole batch.
func (s *DiskStore) Commit(_ context.Context, names []string) error {
	for i, name := range names {
		if err := os.Rename(filepath.Join(s.staging, name), filepath.Join(s.root, name)); err != nil {
			for _, done := range names[:i] {
				if rerr := os.Rename(filepath.Join(s.root, done), filepath.Join(s.staging, done)); rerr != nil {
					slog.Warn("failed to unstage image", "name", done, "error", rerr)
				}
			}
			return fmt.Errorf("failed to commit image %q: %w", name, err)
		}
	}
	return nil
}

func (s *DiskStore) Discard(_ context.Context, names []string) {
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.staging, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to discard staged image", "name", name, "error", err)
		}
	}
}

// Remove deletes committed files. Missing files are not an error.
func (s *DiskStore) Remove(_ context.Context, names []string) error {
	var errs []error
	for _, name := range names {
		if !validName(name) {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *DiskStore) Open(_ context.Context, name string) (*usecase.Image, error) {
	if !validName(name) {
		return nil, usecase.ErrImageNotFound
	}
	f, err := os.Open(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, usecase.ErrImageNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		if err == nil {
			err = usecase.ErrImageNotFound
		}
		return nil, err
	}

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to detect image type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &usecase.Image{Body: f, ContentType: mt.String(), Size: info.Size()}, nil
}

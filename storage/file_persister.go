// Package storage persists files produced by keywords, such as screenshots.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEmptyPath is returned when a file is persisted without a path.
var ErrEmptyPath = errors.New("empty file path")

// FilePersister will persist files. It abstracts away the where and how of
// writing files to the source destination.
type FilePersister interface {
	Persist(ctx context.Context, path string, data io.Reader) error
}

// LocalFilePersister will persist files to the local disk. Relative paths are
// resolved against BaseDir, or the working directory when BaseDir is empty.
type LocalFilePersister struct {
	BaseDir string
}

// Persist writes data to a temporary file next to path and renames it into
// place, so readers never see a partially written file. Existing files are
// replaced.
func (l *LocalFilePersister) Persist(ctx context.Context, path string, data io.Reader) (err error) {
	if path == "" {
		return ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("persisting %q: %w", path, err)
	}

	cp := filepath.Clean(path)
	if !filepath.IsAbs(cp) && l.BaseDir != "" {
		cp = filepath.Join(l.BaseDir, cp)
	}

	dir := filepath.Dir(cp)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating a local directory %q: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(cp)+".*")
	if err != nil {
		return fmt.Errorf("creating a temporary file in %q: %w", dir, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(f, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %q: %w", cp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing the local file %q: %w", tmp, err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("setting permissions of %q: %w", tmp, err)
	}
	if err = os.Rename(tmp, cp); err != nil {
		return fmt.Errorf("renaming %q to %q: %w", tmp, cp, err)
	}

	return nil
}

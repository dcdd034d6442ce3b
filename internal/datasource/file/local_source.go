// Package file implements a local filesystem-backed data source and sink.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"rosterclean/internal/datasource"
)

var (
	_ datasource.Source = (*Local)(nil)
	_ datasource.Sink   = (*LocalSink)(nil)
)

// Local is a filesystem data source that opens files from the local disk.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided filesystem
// path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading and returns an io.ReadCloser.
//
// Behavior:
//   - If the context is already canceled at the time of the call, Open returns
//     the context error without touching the filesystem.
//   - A missing file matches both os.ErrNotExist and datasource.ErrNotFound.
//   - Any other filesystem error is wrapped with the path.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w: %w", l.path, datasource.ErrNotFound, err)
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// LocalSink writes a file on the local disk. The content is staged in a
// temporary file in the destination directory and renamed into place, so a
// failed write never leaves a truncated output behind.
type LocalSink struct{ path string }

// NewLocalSink returns a sink writing to path. Parent directories are created
// on demand.
func NewLocalSink(path string) *LocalSink { return &LocalSink{path: path} }

// Put replaces the destination file with the contents of r.
func (s *LocalSink) Put(ctx context.Context, r io.Reader) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", s.path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", s.path, err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename into %s: %w", s.path, err)
	}
	return nil
}

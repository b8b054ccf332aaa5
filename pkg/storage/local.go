package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Local stores files in a directory on disk. All access goes through an
// os.Root, so keys cannot escape the directory.
type Local struct {
	dir  string
	root *os.Root
}

// NewLocal creates dir if needed and opens it as the storage root.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty uploads directory", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return &Local{dir: dir, root: root}, nil
}

// Dir returns the directory files are stored in.
func (l *Local) Dir() string { return l.dir }

// Close releases the directory handle.
func (l *Local) Close() error { return l.root.Close() }

func (l *Local) Put(_ context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	body, key, contentType, err := newPutOptions(opts).prepare(r, size)
	if err != nil {
		return nil, err
	}

	name := filepath.FromSlash(key)
	if dir := path.Dir(key); dir != "." {
		if err := l.root.MkdirAll(filepath.FromSlash(dir), 0o755); err != nil {
			return nil, errors.Join(ErrUploadFailed, err)
		}
	}

	f, err := l.root.Create(name)
	if err != nil {
		return nil, errors.Join(ErrUploadFailed, err)
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = l.root.Remove(name)
		return nil, errors.Join(ErrUploadFailed, err)
	}

	return &FileInfo{Key: key, ContentType: contentType, Size: n}, nil
}

func (l *Local) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	f, err := l.root.Open(filepath.FromSlash(key))
	if err != nil {
		return nil, localError(err, ErrNotFound)
	}
	if st, err := f.Stat(); err != nil || st.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}
	return f, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := l.root.Remove(filepath.FromSlash(key)); err != nil {
		return localError(err, ErrDeleteFailed)
	}
	return nil
}

func localError(err, fallback error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return fmt.Errorf("%w: %v", fallback, err)
	}
}

var _ Storage = (*Local)(nil)

package blob

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/livemedia/linkgate/internal/core/domain"
)

// Object is a readable product file with its size, suitable for
// streaming to an HTTP response with Content-Length.
type Object struct {
	io.ReadCloser

	// Size is the object length in bytes.
	Size int64
}

// Store provides read access to product objects by key.
type Store interface {
	// Open returns the object for a key.
	// Returns domain.ErrObjectNotFound when the key has no object.
	Open(ctx context.Context, key string) (*Object, error)

	// Stat reports whether the key has an object without opening it.
	Stat(ctx context.Context, key string) error
}

// FSStore serves objects from a local directory.
type FSStore struct {
	root string
}

// NewFSStore creates a store rooted at dir. The directory must exist.
func NewFSStore(dir string) (*FSStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: abs, Err: os.ErrInvalid}
	}

	return &FSStore{root: abs}, nil
}

// Open returns the object for a key.
func (s *FSStore) Open(_ context.Context, key string) (*Object, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrObjectNotFound.WithDetails(key)
		}
		return nil, domain.ErrStorageError.WithDetails("open object").WithCause(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, domain.ErrStorageError.WithDetails("stat object").WithCause(err)
	}
	if info.IsDir() {
		f.Close()
		return nil, domain.ErrObjectNotFound.WithDetails(key)
	}

	return &Object{ReadCloser: f, Size: info.Size()}, nil
}

// Stat reports whether the key has an object.
func (s *FSStore) Stat(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ErrObjectNotFound.WithDetails(key)
		}
		return domain.ErrStorageError.WithDetails("stat object").WithCause(err)
	}
	if info.IsDir() {
		return domain.ErrObjectNotFound.WithDetails(key)
	}
	return nil
}

// resolve maps a key onto the root directory, rejecting keys that
// would escape it. Keys come from the catalog, not from clients, but
// the catalog is operator-editable and mistakes should not turn into
// arbitrary file reads.
func (s *FSStore) resolve(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", domain.ErrObjectNotFound.WithDetails("empty key")
	}

	path := filepath.Join(s.root, filepath.FromSlash(key))
	if path != s.root && !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", domain.ErrObjectNotFound.WithDetails(key)
	}
	return path, nil
}

package util

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// OSFileSystem implements filesystem access on top of the os package.
// The function fields wrap the syscalls so tests can inject failures.
type OSFileSystem struct {
	stat     func(name string) (fs.FileInfo, error)
	remove   func(name string) error
	open     func(name string) (*os.File, error)
	mkdirAll func(path string, perm fs.FileMode) error
}

// NewOSFileSystem returns an OSFileSystem backed by real OS calls.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{
		stat:     os.Stat,
		remove:   os.Remove,
		open:     os.Open,
		mkdirAll: os.MkdirAll,
	}
}

// Exists reports whether path exists. Errors other than "not exist" are
// returned to the caller.
func (o *OSFileSystem) Exists(path string) (bool, error) {
	_, err := o.stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Stat returns file info for a path (follows symlinks).
func (o *OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return o.stat(path)
}

// Remove deletes a single file or empty directory.
func (o *OSFileSystem) Remove(path string) error {
	return o.remove(path)
}

// Open opens a file for streaming reads.
func (o *OSFileSystem) Open(path string) (io.ReadCloser, error) {
	return o.open(path)
}

// MkdirAll creates path and any missing parents. It is a no-op when the
// directory already exists.
func (o *OSFileSystem) MkdirAll(path string) error {
	return o.mkdirAll(path, 0o755)
}

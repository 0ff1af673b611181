// Package fsys holds the filesystem collaborators the shell delegates to.
package fsys

import (
	"context"
	"errors"
	"io"
	"os"
)

var (
	ErrNotFound      = errors.New("no such file or directory")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotDirectory  = errors.New("not a directory")
	ErrIsDirectory   = errors.New("is a directory")
	ErrNotEmpty      = errors.New("directory not empty")
)

// FileSystem is the set of host operations the shell needs. Paths are
// absolute and already cleaned by the caller.
type FileSystem interface {
	Exists(ctx context.Context, path string) (bool, error)
	Stat(ctx context.Context, path string) (os.FileInfo, error)

	// ReadDir returns entry names in the order the backend enumerates them.
	ReadDir(ctx context.Context, path string) ([]string, error)

	Mkdir(ctx context.Context, path string) error
	MkdirAll(ctx context.Context, path string) error

	// Remove deletes a file or an empty directory.
	Remove(ctx context.Context, path string) error

	// Rename moves src to dst, replacing dst when it is an existing file.
	Rename(ctx context.Context, src, dst string) error

	// Touch creates an empty file when path is missing.
	Touch(ctx context.Context, path string) error

	Open(ctx context.Context, path string) (io.ReadCloser, error)
	OpenWrite(ctx context.Context, path string, appendMode bool) (io.WriteCloser, error)
}

// IsDir reports whether path exists and is a directory.
func IsDir(ctx context.Context, fs FileSystem, path string) bool {
	info, err := fs.Stat(ctx, path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFile reports whether path exists and is not a directory.
func IsFile(ctx context.Context, fs FileSystem, path string) bool {
	info, err := fs.Stat(ctx, path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

package fsys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirMode  os.FileMode = 0755
	fileMode os.FileMode = 0644
)

// Afero implements FileSystem on top of an afero.Fs.
type Afero struct {
	fs afero.Fs
}

// NewAfero wraps an arbitrary afero filesystem.
func NewAfero(fs afero.Fs) *Afero {
	return &Afero{fs: fs}
}

// NewOS returns the host filesystem.
func NewOS() *Afero {
	return NewAfero(afero.NewOsFs())
}

// NewMemory returns an empty in-memory filesystem with only "/" present.
func NewMemory() *Afero {
	return NewAfero(afero.NewMemMapFs())
}

func (a *Afero) Exists(_ context.Context, path string) (bool, error) {
	return afero.Exists(a.fs, path)
}

func (a *Afero) Stat(_ context.Context, path string) (os.FileInfo, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return nil, translate("stat", path, err)
	}
	return info, nil
}

func (a *Afero) ReadDir(_ context.Context, path string) ([]string, error) {
	ok, err := afero.IsDir(a.fs, path)
	if err != nil {
		return nil, translate("readdir", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("readdir %s: %w", path, ErrNotDirectory)
	}

	dir, err := a.fs.Open(path)
	if err != nil {
		return nil, translate("readdir", path, err)
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, translate("readdir", path, err)
	}
	return names, nil
}

func (a *Afero) Mkdir(_ context.Context, path string) error {
	if ok, _ := afero.Exists(a.fs, path); ok {
		return fmt.Errorf("mkdir %s: %w", path, ErrAlreadyExists)
	}
	// MemMapFs creates missing parents on Mkdir; the host does not.
	if ok, _ := afero.IsDir(a.fs, filepath.Dir(path)); !ok {
		return fmt.Errorf("mkdir %s: %w", path, ErrNotFound)
	}
	if err := a.fs.Mkdir(path, dirMode); err != nil {
		return translate("mkdir", path, err)
	}
	return nil
}

func (a *Afero) MkdirAll(_ context.Context, path string) error {
	if err := a.fs.MkdirAll(path, dirMode); err != nil {
		return translate("mkdir", path, err)
	}
	return nil
}

func (a *Afero) Remove(_ context.Context, path string) error {
	info, err := a.fs.Stat(path)
	if err != nil {
		return translate("remove", path, err)
	}
	if info.IsDir() {
		empty, err := afero.IsEmpty(a.fs, path)
		if err != nil {
			return translate("remove", path, err)
		}
		if !empty {
			return fmt.Errorf("remove %s: %w", path, ErrNotEmpty)
		}
	}
	if err := a.fs.Remove(path); err != nil {
		return translate("remove", path, err)
	}
	return nil
}

// Rename moves src to dst. An existing destination file is replaced by the
// underlying rename, so a failed move leaves it in place.
func (a *Afero) Rename(_ context.Context, src, dst string) error {
	if _, err := a.fs.Stat(src); err != nil {
		return translate("rename", src, err)
	}
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}
	if info, err := a.fs.Stat(dst); err == nil && info.IsDir() {
		return fmt.Errorf("rename %s: %w", dst, ErrIsDirectory)
	}
	if err := a.fs.Rename(src, dst); err != nil {
		return translate("rename", src, err)
	}
	return nil
}

func (a *Afero) Touch(_ context.Context, path string) error {
	if ok, _ := afero.Exists(a.fs, path); ok {
		return nil
	}
	f, err := a.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return translate("touch", path, err)
	}
	return f.Close()
}

func (a *Afero) Open(_ context.Context, path string) (io.ReadCloser, error) {
	if ok, _ := afero.IsDir(a.fs, path); ok {
		return nil, fmt.Errorf("open %s: %w", path, ErrIsDirectory)
	}
	f, err := a.fs.Open(path)
	if err != nil {
		return nil, translate("open", path, err)
	}
	return f, nil
}

func (a *Afero) OpenWrite(_ context.Context, path string, appendMode bool) (io.WriteCloser, error) {
	flag := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	f, err := a.fs.OpenFile(path, flag, fileMode)
	if err != nil {
		return nil, translate("open", path, err)
	}
	return f, nil
}

func translate(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, path, ErrNotFound)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%s %s: %w", op, path, ErrAlreadyExists)
	}
	return fmt.Errorf("%s %s: %w", op, path, err)
}

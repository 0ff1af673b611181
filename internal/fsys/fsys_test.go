package fsys

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendCase struct {
	name string
	// setup returns the backend and an existing, empty root directory
	setup func(t *testing.T) (FileSystem, string)
}

func backends() []backendCase {
	return []backendCase{
		{
			name: "memory",
			setup: func(t *testing.T) (FileSystem, string) {
				fs := NewMemory()
				require.NoError(t, fs.MkdirAll(context.Background(), "/root"))
				return fs, "/root"
			},
		},
		{
			name: "os",
			setup: func(t *testing.T) (FileSystem, string) {
				return NewOS(), t.TempDir()
			},
		},
		{
			name: "afs",
			setup: func(t *testing.T) (FileSystem, string) {
				return NewAFS(nil), t.TempDir()
			},
		},
	}
}

func TestFileSystem_Contract(t *testing.T) {
	ctx := context.Background()

	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			fs, root := bc.setup(t)

			dir := filepath.Join(root, "sub")
			require.NoError(t, fs.Mkdir(ctx, dir))
			assert.True(t, IsDir(ctx, fs, dir))
			assert.ErrorIs(t, fs.Mkdir(ctx, dir), ErrAlreadyExists)
			assert.ErrorIs(t, fs.Mkdir(ctx, filepath.Join(root, "missing", "child")), ErrNotFound)

			name := filepath.Join(dir, "a.txt")
			require.NoError(t, fs.Touch(ctx, name))
			require.NoError(t, fs.Touch(ctx, name))
			assert.True(t, IsFile(ctx, fs, name))

			names, err := fs.ReadDir(ctx, dir)
			require.NoError(t, err)
			assert.Equal(t, []string{"a.txt"}, names)

			assert.ErrorIs(t, fs.Remove(ctx, dir), ErrNotEmpty)

			w, err := fs.OpenWrite(ctx, name, false)
			require.NoError(t, err)
			_, err = io.WriteString(w, "hello\n")
			require.NoError(t, err)
			require.NoError(t, w.Close())

			w, err = fs.OpenWrite(ctx, name, true)
			require.NoError(t, err)
			_, err = io.WriteString(w, "world\n")
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := fs.Open(ctx, name)
			require.NoError(t, err)
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, "hello\nworld\n", string(data))

			_, err = fs.Open(ctx, dir)
			assert.ErrorIs(t, err, ErrIsDirectory)

			moved := filepath.Join(root, "b.txt")
			require.NoError(t, fs.Rename(ctx, name, moved))
			exists, err := fs.Exists(ctx, name)
			require.NoError(t, err)
			assert.False(t, exists)
			assert.True(t, IsFile(ctx, fs, moved))

			require.NoError(t, fs.Remove(ctx, dir))
			require.NoError(t, fs.Remove(ctx, moved))
			assert.ErrorIs(t, fs.Remove(ctx, moved), ErrNotFound)

			_, err = fs.ReadDir(ctx, filepath.Join(root, "nope"))
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileSystem_RenameReplacesFile(t *testing.T) {
	ctx := context.Background()

	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			fs, root := bc.setup(t)
			src := filepath.Join(root, "src.txt")
			dst := filepath.Join(root, "dst.txt")

			w, err := fs.OpenWrite(ctx, src, false)
			require.NoError(t, err)
			_, _ = io.WriteString(w, "new")
			require.NoError(t, w.Close())
			require.NoError(t, fs.Touch(ctx, dst))

			require.NoError(t, fs.Rename(ctx, src, dst))
			assert.Equal(t, "new", readContent(t, fs, dst))

			names, err := fs.ReadDir(ctx, root)
			require.NoError(t, err)
			assert.Equal(t, []string{"dst.txt"}, names)
		})
	}
}

func TestFileSystem_RenameOntoItself(t *testing.T) {
	ctx := context.Background()

	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			fs, root := bc.setup(t)
			name := filepath.Join(root, "a.txt")
			writeContent(t, fs, name, "precious")

			require.NoError(t, fs.Rename(ctx, name, name))
			require.NoError(t, fs.Rename(ctx, name, root+"/./a.txt"))
			assert.Equal(t, "precious", readContent(t, fs, name))
		})
	}
}

var errRenameRefused = errors.New("rename refused")

// renameRefusingFs fails every rename but allows everything else.
type renameRefusingFs struct {
	afero.Fs
}

func (renameRefusingFs) Rename(string, string) error {
	return errRenameRefused
}

func TestAfero_FailedRenameKeepsDestination(t *testing.T) {
	ctx := context.Background()
	fs := NewAfero(renameRefusingFs{Fs: afero.NewMemMapFs()})
	require.NoError(t, fs.MkdirAll(ctx, "/root"))
	writeContent(t, fs, "/root/src.txt", "new")
	writeContent(t, fs, "/root/dst.txt", "old")

	err := fs.Rename(ctx, "/root/src.txt", "/root/dst.txt")
	assert.ErrorIs(t, err, errRenameRefused)
	assert.Equal(t, "old", readContent(t, fs, "/root/dst.txt"))
	assert.Equal(t, "new", readContent(t, fs, "/root/src.txt"))
}

func TestFileSystem_RenameOntoDirectoryFails(t *testing.T) {
	ctx := context.Background()

	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			fs, root := bc.setup(t)
			src := filepath.Join(root, "a.txt")
			dst := filepath.Join(root, "box")
			writeContent(t, fs, src, "a")
			require.NoError(t, fs.Mkdir(ctx, dst))

			assert.ErrorIs(t, fs.Rename(ctx, src, dst), ErrIsDirectory)
			assert.True(t, IsDir(ctx, fs, dst))
			assert.Equal(t, "a", readContent(t, fs, src))
		})
	}
}

func writeContent(t *testing.T, fs FileSystem, name, content string) {
	t.Helper()
	w, err := fs.OpenWrite(context.Background(), name, false)
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func readContent(t *testing.T, fs FileSystem, name string) string {
	t.Helper()
	r, err := fs.Open(context.Background(), name)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestAfero_MkdirAll(t *testing.T) {
	ctx := context.Background()
	fs := NewMemory()

	require.NoError(t, fs.MkdirAll(ctx, "/a/b/c"))
	assert.True(t, IsDir(ctx, fs, "/a/b"))
	assert.True(t, IsDir(ctx, fs, "/a/b/c"))
	assert.False(t, IsFile(ctx, fs, "/a/b/c"))
}

package fsys

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// AFS implements FileSystem with the viant/afs storage service.
type AFS struct {
	fs afs.Service
}

// NewAFS creates an afs backed filesystem; a nil service uses afs.New().
func NewAFS(service afs.Service) *AFS {
	if service == nil {
		service = afs.New()
	}
	return &AFS{fs: service}
}

func (a *AFS) location(p string) string {
	return url.Normalize(p, file.Scheme)
}

func (a *AFS) Exists(ctx context.Context, p string) (bool, error) {
	return a.fs.Exists(ctx, a.location(p))
}

func (a *AFS) Stat(ctx context.Context, p string) (os.FileInfo, error) {
	ok, err := a.fs.Exists(ctx, a.location(p))
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	if !ok {
		return nil, fmt.Errorf("stat %s: %w", p, ErrNotFound)
	}
	object, err := a.fs.Object(ctx, a.location(p))
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	return object, nil
}

func (a *AFS) ReadDir(ctx context.Context, p string) ([]string, error) {
	info, err := a.Stat(ctx, p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("readdir %s: %w", p, ErrNotDirectory)
	}

	objects, err := a.fs.List(ctx, a.location(p))
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", p, err)
	}

	self := strings.TrimSuffix(p, "/")
	names := make([]string, 0, len(objects))
	for _, object := range objects {
		// afs reports the listed location itself alongside its children
		if strings.TrimSuffix(url.Path(object.URL()), "/") == self {
			continue
		}
		names = append(names, object.Name())
	}
	return names, nil
}

func (a *AFS) Mkdir(ctx context.Context, p string) error {
	if ok, _ := a.fs.Exists(ctx, a.location(p)); ok {
		return fmt.Errorf("mkdir %s: %w", p, ErrAlreadyExists)
	}
	if info, err := a.Stat(ctx, path.Dir(p)); err != nil || !info.IsDir() {
		return fmt.Errorf("mkdir %s: %w", p, ErrNotFound)
	}
	if err := a.fs.Create(ctx, a.location(p), file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("mkdir %s: %w", p, err)
	}
	return nil
}

func (a *AFS) MkdirAll(ctx context.Context, p string) error {
	if info, err := a.Stat(ctx, p); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("mkdir %s: %w", p, ErrNotDirectory)
	}
	if err := a.fs.Create(ctx, a.location(p), file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("mkdir %s: %w", p, err)
	}
	return nil
}

func (a *AFS) Remove(ctx context.Context, p string) error {
	info, err := a.Stat(ctx, p)
	if err != nil {
		return err
	}
	if info.IsDir() {
		names, err := a.ReadDir(ctx, p)
		if err != nil {
			return err
		}
		// afs deletes directories recursively
		if len(names) > 0 {
			return fmt.Errorf("remove %s: %w", p, ErrNotEmpty)
		}
	}
	if err := a.fs.Delete(ctx, a.location(p)); err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}

// Rename moves src to dst. An existing destination file is parked next to
// itself and only deleted once the move succeeded; on failure it is put back.
func (a *AFS) Rename(ctx context.Context, src, dst string) error {
	if _, err := a.Stat(ctx, src); err != nil {
		return err
	}
	if path.Clean(src) == path.Clean(dst) {
		return nil
	}

	parked := ""
	if info, err := a.Stat(ctx, dst); err == nil {
		if info.IsDir() {
			return fmt.Errorf("rename %s: %w", dst, ErrIsDirectory)
		}
		parked = dst + ".dirsh-" + uuid.NewString()
		if err := a.fs.Move(ctx, a.location(dst), a.location(parked)); err != nil {
			return fmt.Errorf("rename %s: %w", dst, err)
		}
	}

	if err := a.fs.Move(ctx, a.location(src), a.location(dst)); err != nil {
		if parked != "" {
			if rerr := a.fs.Move(ctx, a.location(parked), a.location(dst)); rerr != nil {
				return fmt.Errorf("rename %s: %w (restore %s: %v)", src, err, dst, rerr)
			}
		}
		return fmt.Errorf("rename %s: %w", src, err)
	}

	if parked != "" {
		if err := a.fs.Delete(ctx, a.location(parked)); err != nil {
			return fmt.Errorf("rename %s: %w", dst, err)
		}
	}
	return nil
}

func (a *AFS) Touch(ctx context.Context, p string) error {
	if ok, _ := a.fs.Exists(ctx, a.location(p)); ok {
		return nil
	}
	if err := a.fs.Upload(ctx, a.location(p), file.DefaultFileOsMode, bytes.NewReader(nil)); err != nil {
		return fmt.Errorf("touch %s: %w", p, err)
	}
	return nil
}

func (a *AFS) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	info, err := a.Stat(ctx, p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open %s: %w", p, ErrIsDirectory)
	}
	data, err := a.fs.DownloadWithURL(ctx, a.location(p))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (a *AFS) OpenWrite(ctx context.Context, p string, appendMode bool) (io.WriteCloser, error) {
	w := &uploadWriter{ctx: ctx, fs: a.fs, location: a.location(p)}
	if appendMode {
		if ok, _ := a.fs.Exists(ctx, w.location); ok {
			data, err := a.fs.DownloadWithURL(ctx, w.location)
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", p, err)
			}
			w.buf.Write(data)
		}
	}
	return w, nil
}

// uploadWriter buffers writes and uploads the whole object on Close.
type uploadWriter struct {
	ctx      context.Context
	fs       afs.Service
	location string
	buf      bytes.Buffer
	closed   bool
}

func (w *uploadWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *uploadWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fs.Upload(w.ctx, w.location, file.DefaultFileOsMode, bytes.NewReader(w.buf.Bytes()))
}

package blobstore

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/sigcarve/internal/fs"
	"github.com/hupe1980/sigcarve/internal/mmap"
)

// LocalStore implements Store on the local filesystem. Blob names are
// slash-separated paths relative to the root; missing parent directories
// are created on demand.
type LocalStore struct {
	root       string
	fs         fs.FileSystem
	bufferSize int
	perm       os.FileMode
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithFileSystem replaces the filesystem, typically with an fs.FaultyFS.
func WithFileSystem(fsys fs.FileSystem) LocalOption {
	return func(s *LocalStore) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithBufferSize sets the write buffer size of created blobs. Zero disables
// buffering.
func WithBufferSize(n int) LocalOption {
	return func(s *LocalStore) { s.bufferSize = n }
}

// NewLocalStore creates a LocalStore rooted at root.
func NewLocalStore(root string, optFns ...LocalOption) *LocalStore {
	s := &LocalStore{
		root:       root,
		fs:         fs.Default,
		bufferSize: 32 << 10,
		perm:       0o644,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// Root returns the root directory.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Create creates a new file for appending.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	path := s.path(name)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, s.perm)
	if err != nil {
		return nil, err
	}
	lb := &localBlob{f: f}
	if s.bufferSize > 0 {
		lb.w = bufio.NewWriterSize(f, s.bufferSize)
	}
	return lb, nil
}

// Open maps the file read-only.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	m, err := mmap.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	return &mappedBlob{m: m}, nil
}

// Put replaces the file atomically by writing a temporary sibling and
// renaming it into place.
func (s *LocalStore) Put(_ context.Context, name string, data []byte) error {
	path := s.path(name)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, s.perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	return s.fs.Rename(tmp, path)
}

// Delete removes the file.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := s.fs.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// List walks the root and returns slash-separated names with the prefix.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := s.fs.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		for _, e := range entries {
			name := e.Name()
			if rel != "" {
				name = rel + "/" + name
			}
			if e.IsDir() {
				if err := walk(filepath.Join(dir, e.Name()), name); err != nil {
					return err
				}
				continue
			}
			if strings.HasPrefix(name, prefix) && !strings.HasSuffix(name, ".tmp") {
				names = append(names, name)
			}
		}
		return nil
	}
	if err := walk(s.root, ""); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

type localBlob struct {
	f fs.File
	w *bufio.Writer
}

func (b *localBlob) writer() io.Writer {
	if b.w != nil {
		return b.w
	}
	return b.f
}

func (b *localBlob) Write(p []byte) (int, error) {
	return b.writer().Write(p)
}

func (b *localBlob) Sync() error {
	if b.w != nil {
		if err := b.w.Flush(); err != nil {
			return err
		}
	}
	return b.f.Sync()
}

func (b *localBlob) Close() error {
	var flushErr error
	if b.w != nil {
		flushErr = b.w.Flush()
	}
	return errors.Join(flushErr, b.f.Close())
}

type mappedBlob struct {
	m *mmap.Mapping
}

func (b *mappedBlob) ReadAt(p []byte, off int64) (int, error) { return b.m.ReadAt(p, off) }
func (b *mappedBlob) Close() error                            { return b.m.Close() }
func (b *mappedBlob) Size() int64                             { return int64(b.m.Size()) }

// Bytes returns the mapped contents without copying. The slice is valid
// until Close.
func (b *mappedBlob) Bytes() []byte { return b.m.Bytes() }

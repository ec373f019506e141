package fs

import (
	"io"
	"os"
)

// File is a stream file opened for writing. Local reads go through
// internal/mmap and never touch this interface.
type File interface {
	io.WriteCloser
	Sync() error
}

// FileSystem covers the calls LocalStore makes: exclusive creation of
// stream files, temp-file-and-rename for whole blobs, and directory walks
// for List.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
	ReadDir(name string) ([]os.DirEntry, error)
}

// LocalFS passes every call to the os package.
type LocalFS struct{}

func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (LocalFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (LocalFS) Rename(oldpath, newpath string) error         { return os.Rename(oldpath, newpath) }
func (LocalFS) Remove(name string) error                     { return os.Remove(name) }
func (LocalFS) ReadDir(name string) ([]os.DirEntry, error)   { return os.ReadDir(name) }

// Default is used by LocalStore unless WithFileSystem overrides it.
var Default FileSystem = LocalFS{}

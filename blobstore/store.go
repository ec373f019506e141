package blobstore

import (
	"context"
	"io"
	"os"
)

var (
	// ErrNotFound is returned when a blob does not exist. It maps to
	// os.ErrNotExist so errors.Is works for local and remote stores alike.
	ErrNotFound = os.ErrNotExist
	// ErrExists is returned by Create when the name is already taken.
	ErrExists = os.ErrExist
)

// Store creates, reads and lists named blobs.
type Store interface {
	// Create opens a new blob for appending. It fails with ErrExists if the
	// name is taken. ctx bounds the call only; the returned blob stays
	// usable after ctx is done.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Open opens a finished blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a whole blob, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a finished blob.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is an append-only handle. Data is durable once Close
// returns nil.
type WritableBlob interface {
	io.Writer
	io.Closer
	// Sync flushes buffered data to the backing store where supported.
	Sync() error
}

// Aborter is implemented by writable blobs that can discard an unfinished
// upload.
type Aborter interface {
	Abort() error
}

// NewReader returns a sequential reader over the whole blob.
func NewReader(b Blob) io.Reader {
	return io.NewSectionReader(b, 0, b.Size())
}

// ReadAll reads a whole blob.
func ReadAll(ctx context.Context, s Store, name string) ([]byte, error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	data := make([]byte, b.Size())
	if _, err := io.ReadFull(NewReader(b), data); err != nil {
		return nil, err
	}
	return data, nil
}

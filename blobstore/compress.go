package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the framing applied by CompressedStore.
type Compression uint8

const (
	// CompressionNone stores blobs as written.
	CompressionNone Compression = iota
	// CompressionZSTD frames blobs as a zstd stream (".zst").
	CompressionZSTD
	// CompressionLZ4 frames blobs as an lz4 stream (".lz4").
	CompressionLZ4
)

// ParseCompression accepts "none", "zstd" and "lz4".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZSTD, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("blobstore: unknown compression %q", s)
	}
}

// Ext returns the name suffix added to compressed blobs.
func (c Compression) Ext() string {
	switch c {
	case CompressionZSTD:
		return ".zst"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

func (c Compression) String() string {
	switch c {
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// CompressedStore wraps a Store and compresses every blob as a whole
// stream. Callers use logical names; the inner store sees the name with the
// compression suffix appended.
//
// Opened blobs are decompressed into memory.
type CompressedStore struct {
	inner Store
	c     Compression
}

// NewCompressedStore wraps inner. With CompressionNone the store passes
// names and data through unchanged.
func NewCompressedStore(inner Store, c Compression) *CompressedStore {
	return &CompressedStore{inner: inner, c: c}
}

// Compression returns the configured algorithm.
func (s *CompressedStore) Compression() Compression { return s.c }

func (s *CompressedStore) key(name string) string { return name + s.c.Ext() }

// Create opens a compressing writer on the inner store.
func (s *CompressedStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, s.key(name))
	if err != nil {
		return nil, err
	}
	enc, err := s.encoder(w)
	if err != nil {
		if a, ok := w.(Aborter); ok {
			_ = a.Abort()
		} else {
			_ = w.Close()
		}
		return nil, err
	}
	return &compressedWritableBlob{enc: enc, inner: w}, nil
}

// Open reads and decompresses the whole blob.
func (s *CompressedStore) Open(ctx context.Context, name string) (Blob, error) {
	raw, err := ReadAll(ctx, s.inner, s.key(name))
	if err != nil {
		return nil, err
	}
	data, err := s.decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("blobstore: decompress %s: %w", name, err)
	}
	return &memoryBlob{data: data}, nil
}

// Put compresses data and stores it.
func (s *CompressedStore) Put(ctx context.Context, name string, data []byte) error {
	var buf bytes.Buffer
	enc, err := s.encoder(&buf)
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return s.inner.Put(ctx, s.key(name), buf.Bytes())
}

// Delete removes the compressed blob.
func (s *CompressedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, s.key(name))
}

// List returns logical names of compressed blobs with the prefix.
func (s *CompressedStore) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.inner.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	ext := s.c.Ext()
	if ext == "" {
		return names, nil
	}
	out := names[:0]
	for _, n := range names {
		if strings.HasSuffix(n, ext) {
			out = append(out, strings.TrimSuffix(n, ext))
		}
	}
	return out, nil
}

// streamEncoder is the common surface of zstd.Encoder and lz4.Writer.
type streamEncoder interface {
	io.WriteCloser
	Flush() error
}

type passthrough struct{ io.Writer }

func (passthrough) Flush() error { return nil }
func (passthrough) Close() error { return nil }

func (s *CompressedStore) encoder(w io.Writer) (streamEncoder, error) {
	switch s.c {
	case CompressionZSTD:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionNone:
		return passthrough{w}, nil
	default:
		return nil, fmt.Errorf("blobstore: unknown compression %d", s.c)
	}
}

func (s *CompressedStore) decompress(raw []byte) ([]byte, error) {
	switch s.c {
	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(raw, nil)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(raw)))
	default:
		return raw, nil
	}
}

type compressedWritableBlob struct {
	enc   streamEncoder
	inner WritableBlob
}

func (b *compressedWritableBlob) Write(p []byte) (int, error) {
	return b.enc.Write(p)
}

// Sync ends the current compressed block so everything written so far is
// decodable, then syncs the inner blob.
func (b *compressedWritableBlob) Sync() error {
	if err := b.enc.Flush(); err != nil {
		return err
	}
	return b.inner.Sync()
}

func (b *compressedWritableBlob) Close() error {
	return errors.Join(b.enc.Close(), b.inner.Close())
}

func (b *compressedWritableBlob) Abort() error {
	if a, ok := b.inner.(Aborter); ok {
		return a.Abort()
	}
	return b.inner.Close()
}

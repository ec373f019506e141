package hash

import (
	"hash"
	"hash/crc32"
	"io"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// Writer forwards writes and checksums the bytes the underlying writer
// accepted.
type Writer struct {
	w io.Writer
	h hash.Hash32
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, h: crc32.New(crc32cTable)}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.h.Write(p[:n])
	return n, err
}

// Sum32 returns the checksum of everything written so far.
func (w *Writer) Sum32() uint32 {
	return w.h.Sum32()
}

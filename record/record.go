package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Width is the byte length of a record's size field.
type Width uint8

const (
	// Short records carry a 2-byte size field.
	Short Width = 2
	// Long records carry a 4-byte size field.
	Long Width = 4
)

const (
	// ShortExt is the file extension of streams made of Short records.
	ShortExt = ".sig"
	// LongExt is the file extension of streams made of Long records.
	LongExt = ".lsig"
)

var (
	ErrInvalidWidth   = errors.New("record: invalid width")
	ErrRecordTooLarge = errors.New("record: payload exceeds width")
	ErrShortRead      = errors.New("record: short read")
)

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	return w == Short || w == Long
}

// Ext returns the file extension for streams of this width.
func (w Width) Ext() string {
	switch w {
	case Short:
		return ShortExt
	case Long:
		return LongExt
	default:
		return ""
	}
}

// MaxPayload returns the largest payload length the size field can express.
func (w Width) MaxPayload() uint64 {
	switch w {
	case Short:
		return 1<<16 - 1
	case Long:
		return 1<<32 - 1
	default:
		return 0
	}
}

func (w Width) String() string {
	switch w {
	case Short:
		return "short"
	case Long:
		return "long"
	default:
		return fmt.Sprintf("width(%d)", uint8(w))
	}
}

// ParseWidth accepts "2", "4", "short", "long", "sig" and "lsig".
func ParseWidth(s string) (Width, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "2", "short", "sig":
		return Short, nil
	case "4", "long", "lsig":
		return Long, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidWidth, s)
	}
}

// ForName infers the width from a stream name's extension. Compression
// suffixes added by the blob store are ignored.
func ForName(name string) (Width, bool) {
	for _, suffix := range []string{".zst", ".lz4"} {
		name = strings.TrimSuffix(name, suffix)
	}
	switch {
	case strings.HasSuffix(name, LongExt):
		return Long, true
	case strings.HasSuffix(name, ShortExt):
		return Short, true
	default:
		return 0, false
	}
}

// Size returns the encoded length of a record holding n payload bytes.
func Size(n int, width Width) int {
	return int(width) + n
}

func putSize(dst []byte, n uint64, width Width) {
	switch width {
	case Short:
		binary.LittleEndian.PutUint16(dst, uint16(n))
	case Long:
		binary.LittleEndian.PutUint32(dst, uint32(n))
	}
}

func checkPayload(payload []byte, width Width) error {
	if !width.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, uint8(width))
	}
	if uint64(len(payload)) > width.MaxPayload() {
		return fmt.Errorf("%w: %d bytes for %s record", ErrRecordTooLarge, len(payload), width)
	}
	return nil
}

// Append appends the encoded record to dst.
func Append(dst, payload []byte, width Width) ([]byte, error) {
	if err := checkPayload(payload, width); err != nil {
		return dst, err
	}
	var hdr [4]byte
	putSize(hdr[:], uint64(len(payload)), width)
	dst = append(dst, hdr[:width]...)
	return append(dst, payload...), nil
}

// Write writes one record to w. The header and payload are written as a
// single buffer so a failing writer never leaves a header without its body
// from this call alone.
func Write(w io.Writer, payload []byte, width Width) error {
	buf, err := Append(make([]byte, 0, Size(len(payload), width)), payload, width)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// Read reads one record from r into a freshly allocated buffer.
//
// It returns io.EOF only when r is exhausted before the first header byte.
// A stream that ends inside a header or a payload yields ErrShortRead.
func Read(r io.Reader, width Width) ([]byte, error) {
	if !width.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, uint8(width))
	}

	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:width]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: header: %w", ErrShortRead, err)
		}
		return nil, err
	}

	var n uint64
	switch width {
	case Short:
		n = uint64(binary.LittleEndian.Uint16(hdr[:2]))
	case Long:
		n = uint64(binary.LittleEndian.Uint32(hdr[:4]))
	}

	return readPayload(r, n)
}

// chunk bounds the up-front allocation so a corrupt size field cannot force
// a multi-gigabyte allocation before the stream proves it holds the bytes.
const chunk = 64 << 10

func readPayload(r io.Reader, n uint64) ([]byte, error) {
	buf := make([]byte, 0, min(n, chunk))
	for uint64(len(buf)) < n {
		step := min(n-uint64(len(buf)), chunk)
		start := len(buf)
		buf = append(buf, make([]byte, step)...)
		got, err := io.ReadFull(r, buf[start:])
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: payload: want %d bytes, got %d: %w",
					ErrShortRead, n, start+got, io.ErrUnexpectedEOF)
			}
			return nil, err
		}
	}
	return buf, nil
}

package router

import (
	"fmt"
	"sync"

	"github.com/hupe1980/sigcarve/blobstore"
	"github.com/hupe1980/sigcarve/internal/hash"
	"github.com/hupe1980/sigcarve/record"
)

// Stream is a shared handle to one output blob. It stays open until the
// owning Router is closed.
type Stream struct {
	mu    *sync.Mutex // the router's lock
	name  string
	width record.Width
	blob  blobstore.WritableBlob
	sum   *hash.Writer
	w     *record.Writer
	keys  []string
	err   error
}

// Name returns the blob name.
func (s *Stream) Name() string { return s.name }

// Width returns the record width.
func (s *Stream) Width() record.Width { return s.width }

// Refs returns the number of keys registered for the stream.
func (s *Stream) Refs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Records returns the number of records written.
func (s *Stream) Records() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Records()
}

// Bytes returns the number of encoded bytes written.
func (s *Stream) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Bytes()
}

// Checksum returns the CRC32C of the encoded bytes written.
func (s *Stream) Checksum() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sum.Sum32()
}

// Err returns the write error that poisoned the stream, if any.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Info returns a snapshot of the stream.
func (s *Stream) Info() StreamInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info()
}

func (s *Stream) info() StreamInfo {
	info := StreamInfo{
		Name:    s.name,
		Width:   uint8(s.width),
		Records: s.w.Records(),
		Bytes:   s.w.Bytes(),
		CRC32C:  s.sum.Sum32(),
		Keys:    append([]string(nil), s.keys...),
	}
	if s.err != nil {
		info.Error = s.err.Error()
	}
	return info
}

func (s *Stream) write(payload []byte) error {
	if s.err != nil {
		return s.err
	}
	if err := s.w.Write(payload); err != nil {
		s.err = &RouteError{Op: "write", Stream: s.name, Err: err}
		return s.err
	}
	return nil
}

func (s *Stream) addKey(k any) {
	s.keys = append(s.keys, fmt.Sprint(k))
}

// StreamInfo is a point-in-time view of a stream.
type StreamInfo struct {
	Name    string   `json:"name"`
	Width   uint8    `json:"width"`
	Records int64    `json:"records"`
	Bytes   int64    `json:"bytes"`
	CRC32C  uint32   `json:"crc32c"`
	Keys    []string `json:"keys"`
	Error   string   `json:"error,omitempty"`
}

// Manifest lists the streams written by a router.
type Manifest struct {
	Codec   string       `json:"codec"`
	Streams []StreamInfo `json:"streams"`
}

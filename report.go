package sigcarve

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/sigcarve/match"
)

// SignatureReport summarises one signature within a carve.
type SignatureReport struct {
	Name string
	// Offsets holds the start offset of every occurrence.
	Offsets *roaring64.Bitmap
	// Extracted counts matches routed to a stream.
	Extracted int
	// Rejected counts matches whose payload could not be extracted.
	Rejected int
	// Bytes is the payload volume routed.
	Bytes int64
}

// Skipped is a signature that failed validation against the buffer.
type Skipped struct {
	Index  int
	Name   string
	Reason match.ErrorKind
}

// Report summarises a carve. Signatures is aligned with the catalog.
type Report struct {
	Signatures []SignatureReport
	Skipped    []Skipped
	Duration   time.Duration
}

func newReport(sigs []Signature) *Report {
	rep := &Report{Signatures: make([]SignatureReport, len(sigs))}
	for i, s := range sigs {
		rep.Signatures[i] = SignatureReport{
			Name:    s.Name,
			Offsets: roaring64.New(),
		}
	}
	return rep
}

// Matches returns the number of occurrences over all signatures.
func (r *Report) Matches() uint64 {
	var n uint64
	for _, s := range r.Signatures {
		n += s.Offsets.GetCardinality()
	}
	return n
}

// Extracted returns the number of routed payloads.
func (r *Report) Extracted() int {
	n := 0
	for _, s := range r.Signatures {
		n += s.Extracted
	}
	return n
}

// Rejected returns the number of matches without a usable payload.
func (r *Report) Rejected() int {
	n := 0
	for _, s := range r.Signatures {
		n += s.Rejected
	}
	return n
}

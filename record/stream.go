package record

import (
	"errors"
	"io"
	"iter"
)

// Writer appends records of a fixed width to an underlying writer.
type Writer struct {
	w       io.Writer
	width   Width
	records int64
	bytes   int64
}

// NewWriter returns a Writer producing records of the given width.
func NewWriter(w io.Writer, width Width) *Writer {
	return &Writer{w: w, width: width}
}

// Write appends payload as one record.
func (w *Writer) Write(payload []byte) error {
	if err := Write(w.w, payload, w.width); err != nil {
		return err
	}
	w.records++
	w.bytes += int64(Size(len(payload), w.width))
	return nil
}

// Width returns the record width.
func (w *Writer) Width() Width { return w.width }

// Records returns the number of records written.
func (w *Writer) Records() int64 { return w.records }

// Bytes returns the number of encoded bytes written.
func (w *Writer) Bytes() int64 { return w.bytes }

// Reader decodes a concatenation of records.
type Reader struct {
	r       io.Reader
	width   Width
	records int64
	bytes   int64
}

// NewReader returns a Reader for records of the given width.
func NewReader(r io.Reader, width Width) *Reader {
	return &Reader{r: r, width: width}
}

// Next returns the next payload. It returns io.EOF after the last complete
// record.
func (r *Reader) Next() ([]byte, error) {
	p, err := Read(r.r, r.width)
	if err != nil {
		return nil, err
	}
	r.records++
	r.bytes += int64(Size(len(p), r.width))
	return p, nil
}

// All iterates the remaining records. Iteration stops at the first error,
// which is yielded unless it is io.EOF.
func (r *Reader) All() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			p, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(p, err) || err != nil {
				return
			}
		}
	}
}

// Records returns the number of records decoded so far.
func (r *Reader) Records() int64 { return r.records }

// Offset returns the number of bytes consumed by decoded records.
func (r *Reader) Offset() int64 { return r.bytes }

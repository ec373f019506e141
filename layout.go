package sigcarve

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/sigcarve/internal/conv"
	"github.com/hupe1980/sigcarve/router"
)

// Range is a byte range relative to the start of a match.
type Range struct {
	Offset int `yaml:"offset"`
	Length int `yaml:"length"`
}

func (r Range) slice(b []byte) ([]byte, bool) {
	if r.Offset < 0 || r.Length < 0 || r.Offset > len(b) || r.Length > len(b)-r.Offset {
		return nil, false
	}
	return b[r.Offset : r.Offset+r.Length], true
}

// LengthField describes an unsigned integer in the object header that
// holds the payload length.
type LengthField struct {
	Offset    int  `yaml:"offset"`
	Size      int  `yaml:"size"` // 1, 2, 4 or 8
	BigEndian bool `yaml:"big_endian"`
	// Adjust is added to the decoded value, e.g. to count a trailer.
	Adjust int `yaml:"adjust"`
}

func (f LengthField) read(b []byte) (int, bool) {
	raw, ok := Range{Offset: f.Offset, Length: f.Size}.slice(b)
	if !ok {
		return 0, false
	}

	var order binary.ByteOrder = binary.LittleEndian
	if f.BigEndian {
		order = binary.BigEndian
	}

	var v uint64
	switch f.Size {
	case 1:
		v = uint64(raw[0])
	case 2:
		v = uint64(order.Uint16(raw))
	case 4:
		v = uint64(order.Uint32(raw))
	case 8:
		v = order.Uint64(raw)
	default:
		return 0, false
	}
	n, err := conv.Uint64ToInt(v)
	if err != nil {
		return 0, false
	}
	n += f.Adjust
	return n, n >= 0
}

// Layout is an Extractor for formats with a fixed header layout. All
// offsets are relative to the start of the match.
//
// The payload starts at Payload.Offset. Its length is read from Length
// when set, else Payload.Length when positive, else it runs to the end of
// the buffer. Keys are the concatenation of their ranges, in order; an
// empty Secondary reuses Primary.
type Layout struct {
	Payload   Range        `yaml:"payload"`
	Length    *LengthField `yaml:"length_field"`
	Primary   []Range      `yaml:"primary"`
	Secondary []Range      `yaml:"secondary"`
}

// Validate checks the layout for configuration errors.
func (l Layout) Validate() error {
	if l.Payload.Offset < 0 || l.Payload.Length < 0 {
		return fmt.Errorf("%w: negative payload range", ErrInvalidLayout)
	}
	if f := l.Length; f != nil {
		switch f.Size {
		case 1, 2, 4, 8:
		default:
			return fmt.Errorf("%w: length field size %d", ErrInvalidLayout, f.Size)
		}
		if f.Offset < 0 {
			return fmt.Errorf("%w: negative length field offset", ErrInvalidLayout)
		}
	}
	if len(l.Primary) == 0 {
		return fmt.Errorf("%w: no primary key range", ErrInvalidLayout)
	}
	for _, r := range append(append([]Range(nil), l.Primary...), l.Secondary...) {
		if r.Offset < 0 || r.Length <= 0 {
			return fmt.Errorf("%w: key range %+v", ErrInvalidLayout, r)
		}
	}
	return nil
}

// Extract implements Extractor.
func (l Layout) Extract(buf []byte, at int) (Extraction, error) {
	if at < 0 || at > len(buf) {
		return Extraction{}, fmt.Errorf("%w: match offset %d", ErrNoPayload, at)
	}
	obj := buf[at:]

	payload := l.Payload
	switch {
	case l.Length != nil:
		n, ok := l.Length.read(obj)
		if !ok {
			return Extraction{}, fmt.Errorf("%w: unreadable length field", ErrNoPayload)
		}
		payload.Length = n
	case payload.Length == 0:
		payload.Length = len(obj) - payload.Offset
	}

	data, ok := payload.slice(obj)
	if !ok {
		return Extraction{}, fmt.Errorf("%w: payload %d+%d beyond %d bytes", ErrNoPayload, payload.Offset, payload.Length, len(obj))
	}

	primary, ok := key(obj, l.Primary)
	if !ok {
		return Extraction{}, fmt.Errorf("%w: primary key beyond buffer", ErrNoPayload)
	}
	secondary := primary
	if len(l.Secondary) > 0 {
		if secondary, ok = key(obj, l.Secondary); !ok {
			return Extraction{}, fmt.Errorf("%w: secondary key beyond buffer", ErrNoPayload)
		}
	}

	return Extraction{
		Payload:   data,
		Primary:   primary,
		Secondary: secondary,
	}, nil
}

func key(obj []byte, ranges []Range) (router.Key, bool) {
	parts := make([][]byte, len(ranges))
	for i, r := range ranges {
		p, ok := r.slice(obj)
		if !ok {
			return "", false
		}
		parts[i] = p
	}
	return router.KeyOf(parts...), true
}

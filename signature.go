package sigcarve

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sigcarve/record"
	"github.com/hupe1980/sigcarve/router"
)

// Signature is one catalog entry: a byte pattern that marks the start of
// an embedded object and the knowledge needed to cut it out.
type Signature struct {
	// Name identifies the signature in reports, logs and metrics.
	Name string
	// Pattern is matched literally.
	Pattern []byte
	// Width selects the record size field of the output streams.
	Width record.Width
	// Extract frames the payload and keys around a match.
	Extract Extractor
}

func (s Signature) validate() error {
	if !s.Width.Valid() {
		return fmt.Errorf("%w: %d", record.ErrInvalidWidth, uint8(s.Width))
	}
	if s.Extract == nil {
		return errors.New("no extractor")
	}
	if v, ok := s.Extract.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

// Extraction is what an Extractor cuts out of the bytes around a match.
type Extraction struct {
	Payload   []byte
	Primary   router.Key
	Secondary router.Key
}

// Extractor derives an Extraction from the match of a signature starting
// at buf[at]. It returns an error wrapping ErrNoPayload when the bytes do
// not frame a usable object.
type Extractor interface {
	Extract(buf []byte, at int) (Extraction, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(buf []byte, at int) (Extraction, error)

// Extract calls f.
func (f ExtractorFunc) Extract(buf []byte, at int) (Extraction, error) { return f(buf, at) }

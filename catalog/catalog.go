// Package catalog loads signature catalogs from YAML.
//
//	signatures:
//	  - name: magic
//	    pattern: "MAGIC"        # literal bytes; use hex for binary patterns
//	    width: sig              # sig/2/short or lsig/4/long
//	    layout:
//	      payload: {offset: 9}
//	      length_field: {offset: 13, size: 4, big_endian: true}
//	      primary: [{offset: 5, length: 4}]
//	      secondary: [{offset: 7, length: 2}, {offset: 5, length: 2}]
//
// Unknown keys are rejected so typos do not silently disable a field.
package catalog

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/sigcarve"
	"github.com/hupe1980/sigcarve/record"
)

// ErrInvalidEntry is wrapped by every entry validation error.
var ErrInvalidEntry = errors.New("catalog: invalid entry")

// Catalog is the top-level document.
type Catalog struct {
	// Width is the default record width for entries without one.
	Width      string  `yaml:"width,omitempty"`
	Signatures []Entry `yaml:"signatures"`
}

// Entry describes one signature.
type Entry struct {
	Name     string          `yaml:"name"`
	Pattern  string          `yaml:"pattern,omitempty"`
	Hex      string          `yaml:"hex,omitempty"`
	Width    string          `yaml:"width,omitempty"`
	Layout   sigcarve.Layout `yaml:"layout"`
	Disabled bool            `yaml:"disabled,omitempty"`
}

// Parse decodes a catalog.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return &c, nil
}

// LoadFile reads and decodes the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Compile converts the enabled entries into signatures, in file order.
func (c *Catalog) Compile() ([]sigcarve.Signature, error) {
	var errs []error
	sigs := make([]sigcarve.Signature, 0, len(c.Signatures))
	for i, e := range c.Signatures {
		if e.Disabled {
			continue
		}
		sig, err := e.compile(c.Width)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w %d (%s): %w", ErrInvalidEntry, i, e.Name, err))
			continue
		}
		sigs = append(sigs, sig)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return sigs, nil
}

func (e Entry) compile(defaultWidth string) (sigcarve.Signature, error) {
	if e.Name == "" {
		return sigcarve.Signature{}, errors.New("missing name")
	}

	var pattern []byte
	switch {
	case e.Pattern != "" && e.Hex != "":
		return sigcarve.Signature{}, errors.New("pattern and hex are exclusive")
	case e.Hex != "":
		p, err := hex.DecodeString(e.Hex)
		if err != nil {
			return sigcarve.Signature{}, fmt.Errorf("hex: %w", err)
		}
		pattern = p
	default:
		// An empty pattern is kept; the carver skips it per buffer.
		pattern = []byte(e.Pattern)
	}

	w := e.Width
	if w == "" {
		w = defaultWidth
	}
	if w == "" {
		w = "sig"
	}
	width, err := record.ParseWidth(w)
	if err != nil {
		return sigcarve.Signature{}, err
	}

	if err := e.Layout.Validate(); err != nil {
		return sigcarve.Signature{}, err
	}

	return sigcarve.Signature{
		Name:    e.Name,
		Pattern: pattern,
		Width:   width,
		Extract: e.Layout,
	}, nil
}

package router

import "encoding/hex"

// Key is an opaque, comparable stream key built from raw bytes.
type Key string

// KeyOf concatenates parts into a Key. The parts are copied.
func KeyOf(parts ...[]byte) Key {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	b := make([]byte, 0, n)
	for _, p := range parts {
		b = append(b, p...)
	}
	return Key(b)
}

// Bytes returns a copy of the key bytes.
func (k Key) Bytes() []byte { return []byte(k) }

// String returns the key as lower-case hex.
func (k Key) String() string { return hex.EncodeToString([]byte(k)) }

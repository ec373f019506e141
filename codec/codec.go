// Package codec encodes the manifest a router writes next to its streams.
// The manifest records the codec's name, so a reader picks the decoder with
// ByName and never has to sniff the bytes.
package codec

// Codec turns manifest values into bytes and back. The codecs here hold no
// state and may be shared between goroutines.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

var builtin = []Codec{JSON{}, GoJSON{}}

// ByName looks up a built-in codec by the name it writes into manifests.
func ByName(name string) (Codec, bool) {
	for _, c := range builtin {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Names lists the built-in codec names.
func Names() []string {
	names := make([]string, len(builtin))
	for i, c := range builtin {
		names[i] = c.Name()
	}
	return names
}

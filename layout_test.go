package sigcarve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sigcarve/router"
)

func TestLayout_LengthField(t *testing.T) {
	tests := []struct {
		name  string
		field LengthField
		obj   []byte
		want  string
	}{
		{"u8", LengthField{Offset: 2, Size: 1}, []byte("HD\x03abcdef"), "abc"},
		{"u16le", LengthField{Offset: 2, Size: 2}, []byte("HD\x02\x00abcdef"), "ab"},
		{"u16be", LengthField{Offset: 2, Size: 2, BigEndian: true}, []byte("HD\x00\x04abcdef"), "abcd"},
		{"u32le", LengthField{Offset: 2, Size: 4}, []byte("HD\x05\x00\x00\x00abcdef"), "abcde"},
		{"u64be", LengthField{Offset: 2, Size: 8, BigEndian: true}, []byte("HD\x00\x00\x00\x00\x00\x00\x00\x01abcdef"), "a"},
		{"adjust", LengthField{Offset: 2, Size: 1, Adjust: 2}, []byte("HD\x01abcdef"), "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Layout{
				Payload: Range{Offset: 2 + tt.field.Size},
				Length:  &tt.field,
				Primary: []Range{{Offset: 0, Length: 2}},
			}
			require.NoError(t, l.Validate())

			ex, err := l.Extract(append([]byte("junk"), tt.obj...), 4)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(ex.Payload))
			assert.Equal(t, router.Key("HD"), ex.Primary)
			assert.Equal(t, ex.Primary, ex.Secondary)
		})
	}
}

func TestLayout_FixedAndOpenPayload(t *testing.T) {
	obj := []byte("MAGIC1234PAYLOAD")

	ex, err := Layout{Payload: Range{Offset: 9, Length: 3}, Primary: []Range{{Offset: 5, Length: 4}}}.Extract(obj, 0)
	require.NoError(t, err)
	assert.Equal(t, "PAY", string(ex.Payload))

	ex, err = Layout{Payload: Range{Offset: 9}, Primary: []Range{{Offset: 5, Length: 4}}}.Extract(obj, 0)
	require.NoError(t, err)
	assert.Equal(t, "PAYLOAD", string(ex.Payload))
}

func TestLayout_Unframed(t *testing.T) {
	obj := []byte("HD\xffab")
	tests := []struct {
		name   string
		layout Layout
	}{
		{"length beyond buffer", Layout{Payload: Range{Offset: 3}, Length: &LengthField{Offset: 2, Size: 1}, Primary: []Range{{Length: 2}}}},
		{"length field beyond buffer", Layout{Length: &LengthField{Offset: 4, Size: 4}, Primary: []Range{{Length: 2}}}},
		{"negative adjusted length", Layout{Length: &LengthField{Offset: 3, Size: 1, Adjust: -200}, Primary: []Range{{Length: 2}}}},
		{"fixed payload beyond buffer", Layout{Payload: Range{Offset: 2, Length: 10}, Primary: []Range{{Length: 2}}}},
		{"open payload past end", Layout{Payload: Range{Offset: 9}, Primary: []Range{{Length: 2}}}},
		{"primary beyond buffer", Layout{Primary: []Range{{Offset: 4, Length: 2}}}},
		{"secondary beyond buffer", Layout{Primary: []Range{{Length: 2}}, Secondary: []Range{{Offset: 5, Length: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.layout.Extract(obj, 0)
			assert.ErrorIs(t, err, ErrNoPayload)
		})
	}

	_, err := Layout{Primary: []Range{{Length: 1}}}.Extract(obj, 9)
	assert.ErrorIs(t, err, ErrNoPayload)

	huge := []byte("HD\xff\xff\xff\xff\xff\xff\xff\xff")
	_, err = Layout{Payload: Range{Offset: 10}, Length: &LengthField{Offset: 2, Size: 8}, Primary: []Range{{Length: 2}}}.Extract(huge, 0)
	assert.ErrorIs(t, err, ErrNoPayload)
}

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
	}{
		{"no primary", Layout{}},
		{"negative payload", Layout{Payload: Range{Offset: -1}, Primary: []Range{{Length: 1}}}},
		{"length size", Layout{Length: &LengthField{Size: 3}, Primary: []Range{{Length: 1}}}},
		{"length offset", Layout{Length: &LengthField{Offset: -1, Size: 2}, Primary: []Range{{Length: 1}}}},
		{"empty key range", Layout{Primary: []Range{{Offset: 1}}}},
		{"negative secondary", Layout{Primary: []Range{{Length: 1}}, Secondary: []Range{{Offset: -2, Length: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.layout.Validate(), ErrInvalidLayout)
		})
	}
}

package sigcarve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sigcarve/blobstore"
	"github.com/hupe1980/sigcarve/codec"
	"github.com/hupe1980/sigcarve/internal/fs"
	"github.com/hupe1980/sigcarve/match"
	"github.com/hupe1980/sigcarve/record"
	"github.com/hupe1980/sigcarve/router"
	"github.com/hupe1980/sigcarve/testutil"
)

func magicSignature() Signature {
	return Signature{
		Name:    "magic",
		Pattern: []byte("MAGIC"),
		Width:   record.Short,
		Extract: Layout{
			Payload:   Range{Offset: 9},
			Primary:   []Range{{Offset: 5, Length: 4}},
			Secondary: []Range{{Offset: 7, Length: 2}, {Offset: 5, Length: 2}},
		},
	}
}

func newCarver(t *testing.T, store blobstore.Store, sigs []Signature, opts ...Option) *Carver {
	t.Helper()
	opts = append([]Option{WithPrefix("out/"), WithIDSource(router.SequentialIDs(1))}, opts...)
	c, err := New(store, sigs, opts...)
	require.NoError(t, err)
	return c
}

func readRecords(t *testing.T, data []byte, width record.Width) []string {
	t.Helper()
	var out []string
	it := record.NewReader(bytesReader(data), width)
	for p, err := range it.All() {
		require.NoError(t, err)
		out = append(out, string(p))
	}
	return out
}

func TestCarve_AppendsToKeyedStream(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	c := newCarver(t, store, []Signature{magicSignature()})

	rep, err := c.Carve(ctx, []byte("....MAGIC1234PAYLOAD"))
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, rep.Signatures[0].Offsets.ToArray())
	assert.Equal(t, 1, rep.Extracted())
	assert.Empty(t, rep.Skipped)

	rep, err = c.Carve(ctx, []byte("xxMAGIC1234PAYLOAD2"))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Extracted())

	streams := c.Streams()
	require.Len(t, streams, 1)
	assert.Equal(t, "out/1.sig", streams[0].Name)
	assert.Equal(t, int64(2), streams[0].Records)
	assert.Equal(t, int64(2+7+2+8), c.Written())

	require.NoError(t, c.Close(ctx))
	assert.Equal(t, []string{"PAYLOAD", "PAYLOAD2"}, readRecords(t, store.Bytes("out/1.sig"), record.Short))
}

func TestCarve_SecondaryKeyJoinsStream(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	// The second format carries only the permuted id, which equals the
	// secondary key of the first.
	alias := Signature{
		Name:    "alias",
		Pattern: []byte("ALIAS"),
		Width:   record.Short,
		Extract: Layout{
			Payload: Range{Offset: 9},
			Primary: []Range{{Offset: 5, Length: 4}},
		},
	}
	c := newCarver(t, store, []Signature{magicSignature(), alias})

	rep, err := c.Carve(ctx, []byte("MAGIC1234first|ALIAS3412second"))
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Extracted())

	require.NoError(t, c.Close(ctx))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"out/1.sig"}, names)
	assert.Equal(t, []string{"first|ALIAS3412second", "second"}, readRecords(t, store.Bytes("out/1.sig"), record.Short))
}

func TestCarve_SkipsInvalidSignatures(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	metrics := &BasicMetricsCollector{}

	sigs := []Signature{
		{Name: "aa", Pattern: []byte("AA"), Width: record.Short, Extract: Layout{Primary: []Range{{Length: 2}}}},
		{Name: "long", Pattern: []byte("ZZZZZZZZZZ"), Width: record.Short, Extract: Layout{Primary: []Range{{Length: 2}}}},
		{Name: "empty", Pattern: nil, Width: record.Long, Extract: Layout{Primary: []Range{{Length: 2}}}},
	}
	c := newCarver(t, store, sigs, WithMetricsCollector(metrics))

	rep, err := c.Carve(ctx, []byte("xAAyy"))
	require.NoError(t, err)

	assert.Equal(t, []Skipped{
		{Index: 1, Name: "long", Reason: match.PatternSizeOutOfRange},
		{Index: 2, Name: "empty", Reason: match.PatternSizeOutOfRange},
	}, rep.Skipped)
	assert.Equal(t, []uint64{1}, rep.Signatures[0].Offsets.ToArray())
	assert.Equal(t, 1, rep.Extracted())

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.SkipCount)
	assert.Equal(t, int64(1), stats.MatchCount)
	assert.Equal(t, int64(1), stats.StreamCount)

	require.NoError(t, c.Close(ctx))
	assert.Equal(t, []string{"AAyy"}, readRecords(t, store.Bytes("out/1.sig"), record.Short))
}

func TestCarve_EmptyBufferSkipsAll(t *testing.T) {
	c := newCarver(t, blobstore.NewMemoryStore(), []Signature{magicSignature()})

	rep, err := c.Carve(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rep.Skipped, 1)
	assert.Equal(t, match.EmptyOrInvalidRange, rep.Skipped[0].Reason)
}

func TestCarve_OverlappingOccurrences(t *testing.T) {
	sig := Signature{
		Name:    "aa",
		Pattern: []byte("AA"),
		Width:   record.Short,
		Extract: Layout{Payload: Range{Length: 2}, Primary: []Range{{Length: 2}}},
	}
	c := newCarver(t, blobstore.NewMemoryStore(), []Signature{sig})

	rep, err := c.Carve(context.Background(), []byte("AAAA"))
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1, 2}, rep.Signatures[0].Offsets.ToArray())
	assert.Equal(t, 3, rep.Extracted())
	assert.Len(t, c.Streams(), 1)
}

func TestCarve_Window(t *testing.T) {
	c := newCarver(t, blobstore.NewMemoryStore(), []Signature{magicSignature()}, WithWindow(10))

	// The first occurrence starts inside the window, the second does not.
	rep, err := c.Carve(context.Background(), []byte("MAGIC1234PMAGIC5678P"))
	require.NoError(t, err)
	assert.Equal(t, []uint64{0}, rep.Signatures[0].Offsets.ToArray())

	// A window beyond the buffer searches all of it.
	c = newCarver(t, blobstore.NewMemoryStore(), []Signature{magicSignature()}, WithWindow(1<<20))
	rep, err = c.Carve(context.Background(), []byte("MAGIC1234PMAGIC5678P"))
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 10}, rep.Signatures[0].Offsets.ToArray())
}

func TestCarve_RejectsUnframedMatches(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	sig := Signature{
		Name:    "sized",
		Pattern: []byte("SZ"),
		Width:   record.Short,
		Extract: Layout{
			Payload: Range{Offset: 3},
			Length:  &LengthField{Offset: 2, Size: 1},
			Primary: []Range{{Offset: 0, Length: 2}},
		},
	}
	c := newCarver(t, blobstore.NewMemoryStore(), []Signature{sig}, WithMetricsCollector(metrics))

	// The first object is complete, the second claims 9 bytes but has 2.
	rep, err := c.Carve(context.Background(), []byte("SZ\x03abcSZ\x09xy"))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Extracted())
	assert.Equal(t, 1, rep.Rejected())
	assert.Equal(t, int64(1), metrics.GetStats().RejectCount)
}

func TestCarve_RejectsOversizedPayload(t *testing.T) {
	sig := Signature{
		Name:    "big",
		Pattern: []byte("BIG"),
		Width:   record.Short,
		Extract: Layout{Payload: Range{Offset: 3}, Primary: []Range{{Length: 3}}},
	}
	c := newCarver(t, blobstore.NewMemoryStore(), []Signature{sig})

	buf := append([]byte("BIG"), make([]byte, 1<<16)...)
	rep, err := c.Carve(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Rejected())
	assert.Empty(t, c.Streams())
}

func TestCarve_ExtractorErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	sigs := []Signature{
		{Name: "first", Pattern: []byte("X"), Width: record.Short, Extract: ExtractorFunc(func([]byte, int) (Extraction, error) {
			return Extraction{}, boom
		})},
		{Name: "second", Pattern: []byte("Y"), Width: record.Short, Extract: Layout{Primary: []Range{{Length: 1}}}},
	}
	c := newCarver(t, blobstore.NewMemoryStore(), sigs)

	rep, err := c.Carve(context.Background(), []byte("aXbY"))
	require.ErrorIs(t, err, boom)

	var me *MatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "first", me.Signature)
	assert.Equal(t, 1, me.Offset)
	assert.Zero(t, rep.Signatures[1].Offsets.GetCardinality())
}

func TestCarve_StreamFailureAborts(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".sig", fs.Fault{FailOnOpen: true})
	store := blobstore.NewLocalStore(t.TempDir(), blobstore.WithFileSystem(ffs))
	metrics := &BasicMetricsCollector{}
	c := newCarver(t, store, []Signature{magicSignature()}, WithMetricsCollector(metrics))

	_, err := c.Carve(context.Background(), []byte("....MAGIC1234PAYLOAD"))
	require.ErrorIs(t, err, fs.ErrInjected)

	var re *router.RouteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "create", re.Op)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.CarveErrors)
	assert.Equal(t, int64(1), stats.RejectCount)
}

func TestCarve_Canceled(t *testing.T) {
	c := newCarver(t, blobstore.NewMemoryStore(), []Signature{magicSignature()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Carve(ctx, []byte("....MAGIC1234PAYLOAD"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCarve_ParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(7)
	buf := rng.Noise(16 << 10)

	// Objects straddle the 1 KiB chunk borders.
	ids := []string{"0001", "0002", "0001", "0003", "0002"}
	offsets := []int{100, 1022, 2047, 3071, 9000}
	for i, at := range offsets {
		testutil.PlantAt(buf, at, []byte("SIGN"), []byte(ids[i]), []byte("PAYLOAD"), []byte{byte('0' + i)})
	}

	sig := Signature{
		Name:    "sign",
		Pattern: []byte("SIGN"),
		Width:   record.Long,
		Extract: Layout{
			Payload: Range{Offset: 8, Length: 8},
			Primary: []Range{{Offset: 4, Length: 4}},
		},
	}

	run := func(opts ...Option) (*Report, *blobstore.MemoryStore) {
		store := blobstore.NewMemoryStore()
		c := newCarver(t, store, []Signature{sig}, opts...)
		rep, err := c.Carve(ctx, buf)
		require.NoError(t, err)
		require.NoError(t, c.Close(ctx))
		return rep, store
	}

	seqRep, seqStore := run()
	parRep, parStore := run(WithWorkers(4), WithChunkSize(1024))

	want := make([]uint64, len(offsets))
	for i, at := range offsets {
		want[i] = uint64(at)
	}
	assert.Equal(t, want, seqRep.Signatures[0].Offsets.ToArray())
	assert.True(t, seqRep.Signatures[0].Offsets.Equals(parRep.Signatures[0].Offsets))

	names, err := seqStore.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"out/1.lsig", "out/2.lsig", "out/3.lsig"}, names)
	for _, name := range names {
		assert.Equal(t, seqStore.Bytes(name), parStore.Bytes(name), name)
	}
	assert.Equal(t, []string{"PAYLOAD0", "PAYLOAD2"}, readRecords(t, seqStore.Bytes("out/1.lsig"), record.Long))
}

func TestCarve_Manifest(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	c := newCarver(t, store, []Signature{magicSignature()}, WithManifest("manifest.json", codec.GoJSON{}))

	_, err := c.Carve(ctx, []byte("....MAGIC1234PAYLOAD"))
	require.NoError(t, err)
	require.NoError(t, c.Close(ctx))

	var m router.Manifest
	require.NoError(t, codec.GoJSON{}.Unmarshal(store.Bytes("manifest.json"), &m))
	require.Len(t, m.Streams, 1)
	assert.Equal(t, []string{"31323334", "33343132"}, m.Streams[0].Keys)
}

func TestNew_InvalidSignature(t *testing.T) {
	tests := []struct {
		name string
		sig  Signature
		want error
	}{
		{"width", Signature{Name: "w", Pattern: []byte("A"), Width: 3, Extract: Layout{Primary: []Range{{Length: 1}}}}, record.ErrInvalidWidth},
		{"extractor", Signature{Name: "e", Pattern: []byte("A"), Width: record.Short}, ErrInvalidSignature},
		{"layout", Signature{Name: "l", Pattern: []byte("A"), Width: record.Short, Extract: Layout{}}, ErrInvalidLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(blobstore.NewMemoryStore(), []Signature{magicSignature(), tt.sig})
			require.ErrorIs(t, err, ErrInvalidSignature)
			require.ErrorIs(t, err, tt.want)

			var se *SignatureError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, 1, se.Index)
		})
	}
}

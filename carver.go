package sigcarve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/sigcarve/blobstore"
	"github.com/hupe1980/sigcarve/match"
	"github.com/hupe1980/sigcarve/record"
	"github.com/hupe1980/sigcarve/resource"
	"github.com/hupe1980/sigcarve/router"
)

// Carver carves a fixed signature catalog out of buffers into one set of
// output streams. It is safe for concurrent use.
type Carver struct {
	sigs     []Signature
	patterns [][]byte
	router   *router.Router[router.Key]
	rc       *resource.Controller
	opts     options
}

// New creates a Carver writing to store. Every signature needs a valid
// width and an extractor; patterns are checked per buffer instead.
func New(store blobstore.Store, sigs []Signature, optFns ...Option) (*Carver, error) {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		workers:          1,
		chunkSize:        defaultChunkSize,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	patterns := make([][]byte, len(sigs))
	for i, s := range sigs {
		if err := s.validate(); err != nil {
			return nil, &SignatureError{Index: i, Name: s.Name, cause: err}
		}
		patterns[i] = s.Pattern
	}

	rc := resource.NewController(resource.Config{
		MaxWorkers:         int64(opts.workers),
		IOLimitBytesPerSec: opts.ioLimit,
	})

	mc := opts.metricsCollector
	routerOpts := append([]router.Option{
		router.WithLogger(opts.logger.Logger),
		router.WithIOLimiter(rc),
		router.WithOnCreate(func(_ string, w record.Width) { mc.RecordStream(w) }),
	}, opts.routerOptions...)

	return &Carver{
		sigs:     append([]Signature(nil), sigs...),
		patterns: patterns,
		router:   router.New[router.Key](store, routerOpts...),
		rc:       rc,
		opts:     opts,
	}, nil
}

// Signatures returns the catalog.
func (c *Carver) Signatures() []Signature {
	return append([]Signature(nil), c.sigs...)
}

// Carve matches every signature against buf and routes every extracted
// payload. Signatures that do not validate against buf are skipped. The
// report is returned even on error and covers the work done so far.
func (c *Carver) Carve(ctx context.Context, buf []byte) (*Report, error) {
	start := time.Now()
	rep := newReport(c.sigs)

	window := c.opts.window
	if window >= len(buf) {
		window = 0
	}

	mr, err := match.ForEachValid(buf, c.patterns, window, func(i int, buf, _ []byte, offset int) error {
		return c.carveSignature(ctx, i, buf, offset, &rep.Signatures[i])
	})

	for _, s := range mr.Skipped {
		kind, _ := s.Result.Failure()
		name := c.sigs[s.Index].Name
		rep.Skipped = append(rep.Skipped, Skipped{Index: s.Index, Name: name, Reason: kind})
		c.opts.logger.LogSkip(ctx, s.Index, name, kind)
		c.opts.metricsCollector.RecordSkip(name, kind)
	}

	rep.Duration = time.Since(start)
	c.opts.metricsCollector.RecordCarve(len(buf), rep.Duration, err)
	c.opts.logger.LogCarve(ctx, len(buf), rep, err)
	return rep, err
}

func (c *Carver) carveSignature(ctx context.Context, i int, buf []byte, offset int, sr *SignatureReport) error {
	sig := c.sigs[i]

	offsets, err := c.find(ctx, buf, sig.Pattern, offset)
	if err != nil {
		return err
	}
	sr.Offsets = offsets

	it := offsets.Iterator()
	for it.HasNext() {
		if err := ctx.Err(); err != nil {
			return err
		}
		at := int(it.Next())
		c.opts.metricsCollector.RecordMatch(sig.Name)
		if err := c.extract(ctx, sig, buf, at, sr); err != nil {
			return err
		}
	}
	return nil
}

func (c *Carver) extract(ctx context.Context, sig Signature, buf []byte, at int, sr *SignatureReport) error {
	ex, err := sig.Extract.Extract(buf, at)
	if err == nil && uint64(len(ex.Payload)) > sig.Width.MaxPayload() {
		err = fmt.Errorf("%w: %d bytes exceed %s record", ErrNoPayload, len(ex.Payload), sig.Width)
	}
	if err != nil {
		c.opts.metricsCollector.RecordExtract(sig.Name, 0, err)
		if errors.Is(err, ErrNoPayload) {
			sr.Rejected++
			c.opts.logger.LogReject(ctx, sig.Name, at, err)
			return nil
		}
		return &MatchError{Signature: sig.Name, Offset: at, cause: err}
	}

	if _, err := c.router.Route(ctx, ex.Payload, ex.Primary, ex.Secondary, sig.Width); err != nil {
		c.opts.metricsCollector.RecordExtract(sig.Name, len(ex.Payload), err)
		return &MatchError{Signature: sig.Name, Offset: at, cause: err}
	}

	sr.Extracted++
	sr.Bytes += int64(len(ex.Payload))
	c.opts.metricsCollector.RecordExtract(sig.Name, len(ex.Payload), nil)
	return nil
}

// Streams returns a snapshot of the output streams.
func (c *Carver) Streams() []router.StreamInfo {
	return c.router.Streams()
}

// Written returns the number of encoded record bytes routed so far.
func (c *Carver) Written() int64 {
	return c.rc.IOBytes()
}

// Close closes every output stream and writes the manifest if configured.
func (c *Carver) Close(ctx context.Context) error {
	return c.router.Close(ctx)
}

package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/hupe1980/sigcarve/blobstore"
	"github.com/hupe1980/sigcarve/codec"
	"github.com/hupe1980/sigcarve/internal/hash"
	"github.com/hupe1980/sigcarve/record"
)

const defaultMaxAttempts = 16

// Router maps stream keys to output streams.
type Router[K comparable] struct {
	mu      sync.Mutex
	store   blobstore.Store
	opts    options
	table   map[K]*Stream
	streams []*Stream
	names   map[string]struct{}
	closed  bool
}

// New creates a Router writing to store.
func New[K comparable](store blobstore.Store, optFns ...Option) *Router[K] {
	opts := options{
		maxAttempts: defaultMaxAttempts,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ids == nil {
		opts.ids = defaultIDs()
	}
	if opts.manifestName != "" && opts.manifestCodec == nil {
		opts.manifestCodec = codec.Default
	}

	return &Router[K]{
		store: store,
		opts:  opts,
		table: make(map[K]*Stream),
		names: make(map[string]struct{}),
	}
}

// Route appends payload as one record to the stream registered under
// primary, else the one under secondary, else a newly created stream that
// is then registered under both keys.
//
// A failure to create or write a stream is returned as a *RouteError. A
// stream whose write failed keeps returning that error.
func (r *Router[K]) Route(ctx context.Context, payload []byte, primary, secondary K, width record.Width) (*Stream, error) {
	if !width.Valid() {
		return nil, fmt.Errorf("%w: %d", record.ErrInvalidWidth, uint8(width))
	}
	if uint64(len(payload)) > width.MaxPayload() {
		return nil, fmt.Errorf("%w: %d bytes for %s record", record.ErrRecordTooLarge, len(payload), width)
	}

	if err := r.opts.limiter.AcquireIO(ctx, record.Size(len(payload), width)); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	s, ok := r.table[primary]
	if !ok {
		s, ok = r.table[secondary]
	}

	if ok {
		if s.width != width {
			return nil, fmt.Errorf("%w: %s is %s, got %s", ErrWidthMismatch, s.name, s.width, width)
		}
		if s.err != nil {
			return nil, s.err
		}
	} else {
		var err error
		if s, err = r.create(ctx, width); err != nil {
			return nil, err
		}
		// Both keys are bound before the first write; a failed write
		// poisons the stream for both.
		r.register(s, primary)
		if secondary != primary {
			r.register(s, secondary)
		}
		if r.opts.onCreate != nil {
			r.opts.onCreate(s.name, width)
		}
	}

	if err := s.write(payload); err != nil {
		r.opts.logger.ErrorContext(ctx, "stream write failed", "stream", s.name, "error", err)
		return nil, err
	}
	return s, nil
}

func (r *Router[K]) register(s *Stream, k K) {
	r.table[k] = s
	s.addKey(k)
}

// create mints a free name and opens a blob for it. Names this router has
// used and names the store already holds are both skipped.
func (r *Router[K]) create(ctx context.Context, width record.Width) (*Stream, error) {
	for range r.opts.maxAttempts {
		name := r.opts.prefix + strconv.FormatUint(uint64(r.opts.ids.Next()), 10) + width.Ext()
		if _, used := r.names[name]; used {
			continue
		}

		blob, err := r.store.Create(ctx, name)
		if errors.Is(err, blobstore.ErrExists) {
			r.names[name] = struct{}{}
			continue
		}
		if err != nil {
			return nil, &RouteError{Op: "create", Stream: name, Err: err}
		}

		r.names[name] = struct{}{}
		sum := hash.NewWriter(blob)
		s := &Stream{
			mu:    &r.mu,
			name:  name,
			width: width,
			blob:  blob,
			sum:   sum,
			w:     record.NewWriter(sum, width),
		}
		r.streams = append(r.streams, s)
		r.opts.logger.InfoContext(ctx, "stream created", "stream", name, "width", int(width))
		return s, nil
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrNamesExhausted, r.opts.maxAttempts)
}

// Lookup returns the stream registered under k.
func (r *Router[K]) Lookup(k K) (*Stream, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.table[k]
	return s, ok
}

// Len returns the number of distinct streams.
func (r *Router[K]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}

// Streams returns a snapshot of all streams in creation order.
func (r *Router[K]) Streams() []StreamInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Router[K]) snapshot() []StreamInfo {
	infos := make([]StreamInfo, len(r.streams))
	for i, s := range r.streams {
		infos[i] = s.info()
	}
	return infos
}

// Close closes every stream exactly once and writes the manifest if one
// is configured. Later calls return nil.
func (r *Router[K]) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, s := range r.streams {
		if err := s.blob.Close(); err != nil {
			errs = append(errs, &RouteError{Op: "close", Stream: s.name, Err: err})
			if s.err == nil {
				s.err = err
			}
		}
	}

	if r.opts.manifestName != "" {
		if err := r.writeManifest(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	r.opts.logger.InfoContext(ctx, "router closed", "streams", len(r.streams))
	return errors.Join(errs...)
}

func (r *Router[K]) writeManifest(ctx context.Context) error {
	c := r.opts.manifestCodec
	m := Manifest{
		Codec:   c.Name(),
		Streams: r.snapshot(),
	}
	data, err := c.Marshal(m)
	if err != nil {
		return fmt.Errorf("router: encode manifest: %w", err)
	}
	if err := r.store.Put(ctx, r.opts.manifestName, data); err != nil {
		return fmt.Errorf("router: write manifest: %w", err)
	}
	return nil
}

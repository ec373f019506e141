package router

import (
	"log/slog"

	"github.com/hupe1980/sigcarve/codec"
	"github.com/hupe1980/sigcarve/record"
	"github.com/hupe1980/sigcarve/resource"
)

type options struct {
	prefix        string
	ids           IDSource
	maxAttempts   int
	manifestName  string
	manifestCodec codec.Codec
	limiter       *resource.Controller
	logger        *slog.Logger
	onCreate      func(name string, width record.Width)
}

// Option configures a Router.
type Option func(*options)

// WithPrefix sets the directory prefix of output names. It is used verbatim,
// so include the trailing separator ("out/").
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithIDSource sets the source of output name ids. The default is a
// randomly seeded RandomIDs.
func WithIDSource(ids IDSource) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// WithMaxAttempts bounds how many ids are tried when minted names collide.
// Default 16.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithManifest writes a manifest of all streams under name when the router
// is closed.
func WithManifest(name string, c codec.Codec) Option {
	return func(o *options) {
		o.manifestName = name
		o.manifestCodec = c
	}
}

// WithIOLimiter throttles record writes through c.
func WithIOLimiter(c *resource.Controller) Option {
	return func(o *options) {
		o.limiter = c
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOnCreate registers a callback invoked, under the router lock, after a
// new stream is created.
func WithOnCreate(fn func(name string, width record.Width)) Option {
	return func(o *options) {
		o.onCreate = fn
	}
}

package sigcarve

import (
	"github.com/hupe1980/sigcarve/codec"
	"github.com/hupe1980/sigcarve/router"
)

const defaultChunkSize = 4 << 20

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	window           int
	workers          int
	chunkSize        int
	ioLimit          int64
	routerOptions    []router.Option
}

// Option configures a Carver.
type Option func(*options)

// WithLogger configures structured logging.
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring carves.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sigcarve.BasicMetricsCollector{}
//	c, _ := sigcarve.New(store, sigs, sigcarve.WithMetricsCollector(metrics))
//	// ... carve ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithWindow limits signature search to the first n bytes of each buffer.
// Zero, the default, searches the whole buffer. Payloads may extend past
// the window.
func WithWindow(n int) Option {
	return func(o *options) {
		o.window = n
	}
}

// WithWorkers scans up to n chunks of a buffer in parallel. Extraction and
// routing stay sequential in offset order, so the output does not depend
// on n.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithChunkSize sets the bytes per parallel scan chunk. Default 4 MiB.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithIOLimit caps output throughput in bytes per second.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithPrefix sets the directory prefix of output stream names.
func WithPrefix(prefix string) Option {
	return WithRouterOptions(router.WithPrefix(prefix))
}

// WithIDSource sets the source of output name ids.
func WithIDSource(ids router.IDSource) Option {
	return WithRouterOptions(router.WithIDSource(ids))
}

// WithManifest writes a stream manifest under name when the Carver is
// closed. If c is nil, codec.Default is used.
func WithManifest(name string, c codec.Codec) Option {
	return WithRouterOptions(router.WithManifest(name, c))
}

// WithRouterOptions passes options through to the stream router.
func WithRouterOptions(optFns ...router.Option) Option {
	return func(o *options) {
		o.routerOptions = append(o.routerOptions, optFns...)
	}
}

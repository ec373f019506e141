package sigcarve

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/sigcarve/match"
	"github.com/hupe1980/sigcarve/record"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// observability package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordCarve is called after each Carve with the buffer size.
	RecordCarve(bytes int, duration time.Duration, err error)

	// RecordSkip is called for every signature that failed validation.
	RecordSkip(signature string, kind match.ErrorKind)

	// RecordMatch is called for every signature occurrence.
	RecordMatch(signature string)

	// RecordExtract is called after a match was processed. err is nil when
	// the payload was routed, or the extraction or routing error.
	RecordExtract(signature string, payloadBytes int, err error)

	// RecordStream is called when a new output stream is created.
	RecordStream(width record.Width)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCarve(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSkip(string, match.ErrorKind)    {}
func (NoopMetricsCollector) RecordMatch(string)                    {}
func (NoopMetricsCollector) RecordExtract(string, int, error)      {}
func (NoopMetricsCollector) RecordStream(record.Width)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CarveCount      atomic.Int64
	CarveErrors     atomic.Int64
	CarveBytes      atomic.Int64
	CarveTotalNanos atomic.Int64
	SkipCount       atomic.Int64
	MatchCount      atomic.Int64
	ExtractCount    atomic.Int64
	ExtractBytes    atomic.Int64
	RejectCount     atomic.Int64
	StreamCount     atomic.Int64
}

// RecordCarve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCarve(bytes int, duration time.Duration, err error) {
	b.CarveCount.Add(1)
	b.CarveBytes.Add(int64(bytes))
	b.CarveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CarveErrors.Add(1)
	}
}

// RecordSkip implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSkip(string, match.ErrorKind) {
	b.SkipCount.Add(1)
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(string) {
	b.MatchCount.Add(1)
}

// RecordExtract implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExtract(_ string, payloadBytes int, err error) {
	if err != nil {
		b.RejectCount.Add(1)
		return
	}
	b.ExtractCount.Add(1)
	b.ExtractBytes.Add(int64(payloadBytes))
}

// RecordStream implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStream(record.Width) {
	b.StreamCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CarveCount:    b.CarveCount.Load(),
		CarveErrors:   b.CarveErrors.Load(),
		CarveBytes:    b.CarveBytes.Load(),
		CarveAvgNanos: b.getAvgCarveNanos(),
		SkipCount:     b.SkipCount.Load(),
		MatchCount:    b.MatchCount.Load(),
		ExtractCount:  b.ExtractCount.Load(),
		ExtractBytes:  b.ExtractBytes.Load(),
		RejectCount:   b.RejectCount.Load(),
		StreamCount:   b.StreamCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgCarveNanos() int64 {
	count := b.CarveCount.Load()
	if count == 0 {
		return 0
	}
	return b.CarveTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CarveCount    int64
	CarveErrors   int64
	CarveBytes    int64
	CarveAvgNanos int64
	SkipCount     int64
	MatchCount    int64
	ExtractCount  int64
	ExtractBytes  int64
	RejectCount   int64
	StreamCount   int64
}

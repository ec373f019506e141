// Package observability exports carve metrics to Prometheus.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/sigcarve"
	"github.com/hupe1980/sigcarve/match"
	"github.com/hupe1980/sigcarve/record"
)

// PrometheusCollector implements sigcarve.MetricsCollector.
type PrometheusCollector struct {
	carveLatency *prometheus.HistogramVec
	carveBytes   prometheus.Counter
	skips        *prometheus.CounterVec
	matches      *prometheus.CounterVec
	extracts     *prometheus.CounterVec
	payloadBytes *prometheus.CounterVec
	streams      *prometheus.CounterVec
}

var _ sigcarve.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collectors and registers them with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &PrometheusCollector{
		carveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sigcarve_carve_duration_seconds",
			Help:    "Latency of carves",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		carveBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigcarve_scanned_bytes_total",
			Help: "Total bytes of input scanned",
		}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sigcarve_signature_skips_total",
			Help: "Signatures skipped because they did not validate against a buffer",
		}, []string{"signature", "reason"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sigcarve_matches_total",
			Help: "Signature occurrences found",
		}, []string{"signature"}),
		extracts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sigcarve_extractions_total",
			Help: "Processed matches by outcome",
		}, []string{"signature", "status"}),
		payloadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sigcarve_payload_bytes_total",
			Help: "Payload bytes routed to output streams",
		}, []string{"signature"}),
		streams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sigcarve_streams_created_total",
			Help: "Output streams created",
		}, []string{"width"}),
	}

	reg.MustRegister(
		p.carveLatency,
		p.carveBytes,
		p.skips,
		p.matches,
		p.extracts,
		p.payloadBytes,
		p.streams,
	)
	return p
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordCarve implements sigcarve.MetricsCollector.
func (p *PrometheusCollector) RecordCarve(bytes int, d time.Duration, err error) {
	p.carveLatency.WithLabelValues(status(err)).Observe(d.Seconds())
	p.carveBytes.Add(float64(bytes))
}

// RecordSkip implements sigcarve.MetricsCollector.
func (p *PrometheusCollector) RecordSkip(signature string, kind match.ErrorKind) {
	p.skips.WithLabelValues(signature, kind.String()).Inc()
}

// RecordMatch implements sigcarve.MetricsCollector.
func (p *PrometheusCollector) RecordMatch(signature string) {
	p.matches.WithLabelValues(signature).Inc()
}

// RecordExtract implements sigcarve.MetricsCollector.
func (p *PrometheusCollector) RecordExtract(signature string, payloadBytes int, err error) {
	p.extracts.WithLabelValues(signature, status(err)).Inc()
	if err == nil {
		p.payloadBytes.WithLabelValues(signature).Add(float64(payloadBytes))
	}
}

// RecordStream implements sigcarve.MetricsCollector.
func (p *PrometheusCollector) RecordStream(w record.Width) {
	p.streams.WithLabelValues(w.String()).Inc()
}

package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sigcarve"
	"github.com/hupe1980/sigcarve/blobstore"
	"github.com/hupe1980/sigcarve/match"
	"github.com/hupe1980/sigcarve/record"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusCollector(reg)

	p.RecordCarve(100, time.Millisecond, nil)
	p.RecordCarve(50, time.Millisecond, errors.New("x"))
	p.RecordSkip("zip", match.PatternSizeOutOfRange)
	p.RecordMatch("zip")
	p.RecordExtract("zip", 10, nil)
	p.RecordExtract("zip", 0, sigcarve.ErrNoPayload)
	p.RecordStream(record.Long)

	assert.Equal(t, 150.0, promtest.ToFloat64(p.carveBytes))
	assert.Equal(t, 1.0, promtest.ToFloat64(p.skips.WithLabelValues("zip", match.PatternSizeOutOfRange.String())))
	assert.Equal(t, 1.0, promtest.ToFloat64(p.matches.WithLabelValues("zip")))
	assert.Equal(t, 1.0, promtest.ToFloat64(p.extracts.WithLabelValues("zip", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(p.extracts.WithLabelValues("zip", "error")))
	assert.Equal(t, 10.0, promtest.ToFloat64(p.payloadBytes.WithLabelValues("zip")))
	assert.Equal(t, 1.0, promtest.ToFloat64(p.streams.WithLabelValues("long")))
	assert.Equal(t, 2, promtest.CollectAndCount(p.carveLatency))
}

func TestPrometheusCollector_WithCarver(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusCollector(reg)

	c, err := sigcarve.New(blobstore.NewMemoryStore(), []sigcarve.Signature{{
		Name:    "magic",
		Pattern: []byte("MAGIC"),
		Width:   record.Short,
		Extract: sigcarve.Layout{Payload: sigcarve.Range{Offset: 9}, Primary: []sigcarve.Range{{Offset: 5, Length: 4}}},
	}}, sigcarve.WithMetricsCollector(p))
	require.NoError(t, err)

	_, err = c.Carve(context.Background(), []byte("....MAGIC1234PAYLOAD"))
	require.NoError(t, err)
	require.NoError(t, c.Close(context.Background()))

	assert.Equal(t, 1.0, promtest.ToFloat64(p.matches.WithLabelValues("magic")))
	assert.Equal(t, 7.0, promtest.ToFloat64(p.payloadBytes.WithLabelValues("magic")))
	assert.Equal(t, 1.0, promtest.ToFloat64(p.streams.WithLabelValues("short")))

	n, err := promtest.GatherAndCount(reg, "sigcarve_matches_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

// newTestMeter returns a meter whose measurements can be collected on demand
func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false, ServiceName: "bergizi-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewMeterProvider_Enabled(t *testing.T) {
	if testing.Short() {
		t.Skip("requires an OTLP collector")
	}
	ctx := context.Background()
	mp, err := NewMeterProvider(ctx, MetricsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    time.Second,
		ServiceName:       "bergizi-test",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, mp.IsEnabled())
	_ = mp.Shutdown(ctx)
}

func TestCounter(t *testing.T) {
	reader, provider := newTestMeter(t)
	ctx := context.Background()

	c, err := NewCounter(provider.Meter("test"), "bergizi_test_total", "test counter", "1")
	require.NoError(t, err)

	c.Add(ctx, 5, attribute.String("method", "GET"))
	c.Inc(ctx, attribute.String("method", "POST"))

	assert.Equal(t, int64(6), sumOf(t, collect(t, reader)["bergizi_test_total"]))
}

func TestUpDownCounter(t *testing.T) {
	reader, provider := newTestMeter(t)
	ctx := context.Background()

	c, err := NewUpDownCounter(provider.Meter("test"), "bergizi_inflight", "in flight", "1")
	require.NoError(t, err)

	c.Add(ctx, 3)
	c.Add(ctx, -2)

	assert.Equal(t, int64(1), sumOf(t, collect(t, reader)["bergizi_inflight"]))
}

func TestHistogram(t *testing.T) {
	reader, provider := newTestMeter(t)
	ctx := context.Background()

	h, err := NewHistogram(provider.Meter("test"), HistogramOpts{
		Name:        "bergizi_duration_seconds",
		Description: "test histogram",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	require.NoError(t, err)

	h.Record(ctx, 0.02)
	h.RecordDuration(ctx, 300*time.Millisecond)

	data, ok := collect(t, reader)["bergizi_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	dp := data.DataPoints[0]
	assert.Equal(t, uint64(2), dp.Count)
	assert.InDelta(t, 0.32, dp.Sum, 1e-9)
	assert.Equal(t, HTTPDurationBuckets, dp.Bounds)
}

func TestHistogram_DefaultBoundaries(t *testing.T) {
	_, provider := newTestMeter(t)
	h, err := NewHistogram(provider.Meter("test"), HistogramOpts{Name: "plain", Unit: "s"})
	require.NoError(t, err)
	h.Record(context.Background(), 1)
}

func TestBuckets_Ascending(t *testing.T) {
	for _, buckets := range [][]float64{HTTPDurationBuckets, DBDurationBuckets} {
		for i := 1; i < len(buckets); i++ {
			assert.Greater(t, buckets[i], buckets[i-1])
		}
	}
}

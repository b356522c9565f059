package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"atscore/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	return sums
}

func TestMetricsRecording(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordAnalysis(ctx, "general", "advanced", false, false, true, 20*time.Millisecond)
	m.RecordCacheLookup(ctx, "memory", false)
	m.RecordCacheLookup(ctx, "memory", true)
	m.RecordAIRequest(ctx, "gemini-2.0-flash", time.Second, TokenCounts{Input: 10, Output: 5, Total: 15}, nil)
	m.RecordAIRequest(ctx, "gemini-2.0-flash", time.Second, TokenCounts{}, fmt.Errorf("boom"))
	m.RecordAIFallback(ctx, "AI_TRANSPORT_FAILED")
	m.RecordRateLimitWait(ctx, 50*time.Millisecond)

	sums := collectSums(t, reader)
	assert.Equal(t, int64(1), sums["atscore_analyses_total"])
	assert.Equal(t, int64(2), sums["atscore_cache_lookups_total"])
	assert.Equal(t, int64(2), sums["atscore_ai_requests_total"])
	assert.Equal(t, int64(1), sums["atscore_ai_errors_total"])
	assert.Equal(t, int64(1), sums["atscore_ai_fallbacks_total"])
	assert.Equal(t, int64(1), sums["atscore_rate_limit_waits_total"])
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordAnalysis(ctx, "general", "advanced", false, false, true, time.Second)
		m.RecordCacheLookup(ctx, "memory", true)
		m.RecordAIRequest(ctx, "model", time.Second, TokenCounts{}, nil)
		m.RecordAIFallback(ctx, "reason")
		m.RecordRateLimitWait(ctx, time.Second)
	})
}

func TestDisabledManager(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, om.Metrics())
	assert.NoError(t, om.Shutdown(context.Background()))

	var nilManager *ObservabilityManager
	assert.Nil(t, nilManager.Metrics())
}

func TestEnabledManagerWithManualReader(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{
		ServiceName:    "atscore-test",
		Enabled:        true,
		TracingEnabled: true,
		MetricsEnabled: true,
		SampleRate:     1.0,
	})
	require.NoError(t, err)
	defer func() { _ = om.Shutdown(context.Background()) }()

	require.NotNil(t, om.Metrics())
	om.Metrics().RecordCacheLookup(context.Background(), "memory", true)
}

func TestGetObservabilityConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.ServiceName = "atscore"
	cfg.Observability.Enabled = true
	cfg.Observability.SampleRate = 0.5
	cfg.Observability.Tracing.Enabled = true
	cfg.Observability.Tracing.SampleRate = 0.25
	cfg.Observability.Prometheus.Enabled = true
	cfg.Observability.Prometheus.Port = "9100"

	got := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, "1.2.3", got.ServiceVersion)
	assert.Equal(t, 0.25, got.SampleRate)
	assert.True(t, got.TracingEnabled)
	assert.False(t, got.MetricsEnabled)
	assert.Equal(t, "9100", got.Prometheus.Port)

	fallback := GetObservabilityConfig(nil, "dev")
	assert.Equal(t, "atscore", fallback.ServiceName)
	assert.False(t, fallback.Enabled)
}

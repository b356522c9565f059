package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the custom atscore instruments. A nil *Metrics records
// nothing, so callers never need to check.
type Metrics struct {
	// Pipeline metrics
	AnalysesTotal    metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	CacheLookups     metric.Int64Counter

	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram
	AIFallbacks      metric.Int64Counter

	// Rate limiting metrics
	RateLimitWaits    metric.Int64Counter
	RateLimitWaitTime metric.Float64Histogram
}

// TokenCounts is the token usage of one AI request
type TokenCounts struct {
	Input  int64
	Output int64
	Total  int64
}

// NewMetrics creates all instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AnalysesTotal, err = meter.Int64Counter(
		"atscore_analyses_total",
		metric.WithDescription("Total number of resume analyses"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analyses metric: %w", err)
	}

	if m.AnalysisDuration, err = meter.Float64Histogram(
		"atscore_analysis_duration_seconds",
		metric.WithDescription("End to end analysis duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analysis duration metric: %w", err)
	}

	if m.CacheLookups, err = meter.Int64Counter(
		"atscore_cache_lookups_total",
		metric.WithDescription("Analysis cache lookups by result"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache lookup metric: %w", err)
	}

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"atscore_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	if m.AIRequestCount, err = meter.Int64Counter(
		"atscore_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	if m.AIErrorCount, err = meter.Int64Counter(
		"atscore_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	if m.AITokenUsage, err = meter.Int64Histogram(
		"atscore_ai_token_usage",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.AIFallbacks, err = meter.Int64Counter(
		"atscore_ai_fallbacks_total",
		metric.WithDescription("Analyses that fell back to the heuristic result"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI fallback metric: %w", err)
	}

	if m.RateLimitWaits, err = meter.Int64Counter(
		"atscore_rate_limit_waits_total",
		metric.WithDescription("AI requests delayed by the rate limiter"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit wait metric: %w", err)
	}

	if m.RateLimitWaitTime, err = meter.Float64Histogram(
		"atscore_rate_limit_wait_seconds",
		metric.WithDescription("Time spent waiting for the AI rate limiter"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit wait time metric: %w", err)
	}

	return m, nil
}

// RecordAnalysis records one finished analysis
func (m *Metrics) RecordAnalysis(ctx context.Context, mode, scheme string, aiEnhanced, cached, success bool, duration time.Duration) {
	if m == nil || m.AnalysesTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("scheme", scheme),
		attribute.Bool("ai_enhanced", aiEnhanced),
		attribute.Bool("cached", cached),
		attribute.Bool("success", success),
	)
	m.AnalysesTotal.Add(ctx, 1, attrs)
	m.AnalysisDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCacheLookup records a cache hit or miss
func (m *Metrics) RecordCacheLookup(ctx context.Context, backend string, hit bool) {
	if m == nil || m.CacheLookups == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("result", result),
	))
}

// RecordAIRequest records one generation call, successful or not
func (m *Metrics) RecordAIRequest(ctx context.Context, model string, duration time.Duration, tokens TokenCounts, err error) {
	if m == nil || m.AIRequestCount == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("model", model),
		attribute.Bool("success", err == nil),
	}

	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.AIProcessingTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
		return
	}

	if tokens == (TokenCounts{}) {
		return
	}
	for _, tt := range []struct {
		tokenType string
		value     int64
	}{
		{"input", tokens.Input},
		{"output", tokens.Output},
		{"total", tokens.Total},
	} {
		tokenAttrs := append([]attribute.KeyValue{attribute.String("token_type", tt.tokenType)}, attrs...)
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
	}
}

// RecordAIFallback records an analysis that kept the heuristic result
func (m *Metrics) RecordAIFallback(ctx context.Context, reason string) {
	if m == nil || m.AIFallbacks == nil {
		return
	}
	m.AIFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordRateLimitWait records time spent blocked on the AI rate limiter
func (m *Metrics) RecordRateLimitWait(ctx context.Context, wait time.Duration) {
	if m == nil || m.RateLimitWaits == nil {
		return
	}
	m.RateLimitWaits.Add(ctx, 1)
	m.RateLimitWaitTime.Record(ctx, wait.Seconds())
}

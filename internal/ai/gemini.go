package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"atscore/internal/config"
	atserrors "atscore/internal/errors"
	"atscore/internal/observability"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiGenerator implements Generator for Google Gemini
type GeminiGenerator struct {
	client           *genai.Client
	model            string
	maxRetries       int
	useSystemPrompts bool
	breaker          *GenerationBreaker
	limiter          *rate.Limiter
	metrics          *observability.Metrics
	logger           *atserrors.Logger
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a Gemini client with an instrumented HTTP
// transport, a circuit breaker and an optional rate limiter
func NewGeminiGenerator(ctx context.Context, cfg config.AIConfig, metrics *observability.Metrics, logger *atserrors.Logger) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, atserrors.NewConfigError(atserrors.ErrCodeMissingAPIKey, "Gemini API key is not configured", nil)
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, atserrors.NewAIError(atserrors.ErrCodeAIServiceFailed, "Failed to create Gemini client", err)
	}

	logger.Debug("Initializing Gemini generator",
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries,
		"rate_limit_enabled", cfg.RateLimit.Enabled)

	return &GeminiGenerator{
		client:           client,
		model:            cfg.Model,
		maxRetries:       cfg.MaxRetries,
		useSystemPrompts: cfg.UseSystemPrompts,
		breaker:          NewGenerationBreaker("AI-Analyze", cfg.CircuitBreaker, logger),
		limiter:          newLimiter(cfg.RateLimit),
		metrics:          metrics,
		logger:           logger,
	}, nil
}

// newLimiter returns nil when rate limiting is disabled
func newLimiter(cfg config.RateLimitConfig) *rate.Limiter {
	if !cfg.Enabled || cfg.RequestsPerMin <= 0 {
		return nil
	}
	burst := max(cfg.BurstCapacity, 1)
	return rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMin)/60.0), burst)
}

// Generate implements Generator
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, params GenerationParams) (*Generation, error) {
	tracer := otel.Tracer("atscore.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.model),
		attribute.Float64("ai.temperature", float64(params.Temperature)),
		attribute.Int("input.prompt_length", len(prompt)),
	)

	if err := g.waitForSlot(ctx); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	genaiConfig := g.buildConfig(params)
	start := time.Now()

	result, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, "analyze_resume", func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genaiConfig)
		})
	})

	usage := extractTokenUsage(result)
	g.metrics.RecordAIRequest(ctx, g.model, time.Since(start), tokenCounts(usage), err)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, atserrors.NewAIError(atserrors.ErrCodeAIServiceFailed, "Failed to generate content", err)
	}

	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))

	return &Generation{Text: result.Text(), Usage: usage}, nil
}

// waitForSlot blocks until the rate limiter admits the call
func (g *GeminiGenerator) waitForSlot(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	start := time.Now()
	if err := g.limiter.Wait(ctx); err != nil {
		return atserrors.NewAIError(atserrors.ErrCodeAIServiceFailed, "Rate limiter wait aborted", err)
	}
	if waited := time.Since(start); waited > time.Millisecond {
		g.metrics.RecordRateLimitWait(ctx, waited)
		g.logger.Debug("Waited for AI rate limit", "wait", waited)
	}
	return nil
}

func (g *GeminiGenerator) buildConfig(params GenerationParams) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(params.Temperature),
	}
	if params.TopP > 0 {
		cfg.TopP = genai.Ptr(params.TopP)
	}
	if params.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = params.MaxOutputTokens
	}
	if g.useSystemPrompts && params.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(params.SystemPrompt, genai.RoleUser)
	}
	return cfg
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiGenerator) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", g.maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(backoffDelay(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", g.maxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, g.maxRetries, lastErr)
}

// backoffDelay is 2^(attempt-1) seconds plus up to 10% jitter, capped at 30s
func backoffDelay(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	jitter := time.Duration(0)
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			jitter = time.Duration(n.Int64())
		}
	}
	return min(baseDelay+jitter, 30*time.Second)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// network errors, timeouts included
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code == http.StatusTooManyRequests || genaiErr.Code >= http.StatusInternalServerError
	}

	return false
}

// BreakerStats returns circuit breaker statistics
func (g *GeminiGenerator) BreakerStats() map[string]any {
	return g.breaker.Stats()
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

func tokenCounts(u *TokenUsage) observability.TokenCounts {
	if u == nil {
		return observability.TokenCounts{}
	}
	return observability.TokenCounts{Input: u.InputTokens, Output: u.OutputTokens, Total: u.TotalTokens}
}

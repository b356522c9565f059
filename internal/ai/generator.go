package ai

import "context"

// GenerationParams are the sampling settings for one generation call
type GenerationParams struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
	// SystemPrompt is sent as a system instruction when non-empty
	SystemPrompt string
}

// TokenUsage represents token usage reported by the model
type TokenUsage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
	TotalTokens  int64 `json:"totalTokens"`
}

// Generation is the raw text reply of a generator
type Generation struct {
	Text  string
	Usage *TokenUsage
}

// Generator turns a prompt into text. Implementations own transport
// concerns such as retries and rate limits.
type Generator interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (*Generation, error)
}

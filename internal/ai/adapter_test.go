package ai

import (
	"context"
	"fmt"
	"testing"

	"atscore/internal/config"
	"atscore/internal/errors"
	"atscore/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply      string
	err        error
	lastPrompt string
	lastParams GenerationParams
	calls      int
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, params GenerationParams) (*Generation, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &Generation{Text: s.reply, Usage: &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}, nil
}

const validReply = `{"score": 82, "grade": "A", "summary": "Solid resume", "feedback": ["Add metrics"], "strengths": ["Clear sections"]}`

func newTestAdapter(gen Generator) *Adapter {
	builder := NewPromptBuilder(nil, config.PromptConfig{}, TruncationPolicy{ResumeChars: 100, JobDescriptionChars: 50})
	return NewAdapter(gen, builder, GenerationParams{Temperature: 0.1, TopP: 0.95, MaxOutputTokens: 2048}, errors.NewDiscardLogger())
}

func TestEnrichSuccess(t *testing.T) {
	gen := &stubGenerator{reply: "Here you go:\n```json\n" + validReply + "\n```"}
	a := newTestAdapter(gen)

	out := a.Enrich(context.Background(), PromptInput{ResumeText: "resume", Mode: types.ModeGeneral})

	enriched, ok := out.(Enriched)
	require.True(t, ok, "expected Enriched, got %T", out)
	assert.Equal(t, 82, enriched.Analysis.Score)
	assert.Equal(t, "A", enriched.Analysis.Grade)
	assert.Equal(t, []string{"Add metrics"}, enriched.Analysis.Feedback)
	assert.Equal(t, int64(15), enriched.Usage.TotalTokens)

	assert.Equal(t, 1, gen.calls)
	assert.InDelta(t, 0.1, gen.lastParams.Temperature, 1e-6)
	assert.Equal(t, DefaultSystemPrompt, gen.lastParams.SystemPrompt)
	assert.Contains(t, gen.lastPrompt, `"required": ["score", "grade", "feedback"]`)
}

func TestEnrichFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		gen       *stubGenerator
		wantCode  string
		wantState State
	}{
		{"transport failure", &stubGenerator{err: fmt.Errorf("connection refused")}, errors.ErrCodeAITransportFailed, StateRequested},
		{"no json object", &stubGenerator{reply: "I cannot help with that."}, errors.ErrCodeAIFormatFailed, StateRequested},
		{"malformed json", &stubGenerator{reply: `{"score": 80, "grade": }`}, errors.ErrCodeAIFormatFailed, StateRequested},
		{"schema violation", &stubGenerator{reply: `{"score": 180, "grade": "A", "feedback": []}`}, errors.ErrCodeAIFormatFailed, StateRequested},
		{"missing field", &stubGenerator{reply: `{"score": 80, "grade": "A"}`}, errors.ErrCodeAIFormatFailed, StateRequested},
		{"unknown grade", &stubGenerator{reply: `{"score": 80, "grade": "A-", "feedback": []}`}, errors.ErrCodeAIFormatFailed, StateRequested},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := newTestAdapter(tt.gen).Enrich(context.Background(), PromptInput{ResumeText: "resume"})

			h, ok := out.(Heuristic)
			require.True(t, ok, "expected Heuristic, got %T", out)
			assert.Equal(t, tt.wantState, h.State)
			assert.True(t, errors.HasCode(h.Reason, tt.wantCode), "reason %v", h.Reason)
		})
	}
}

func TestEnrichWithoutGenerator(t *testing.T) {
	a := newTestAdapter(nil)
	assert.False(t, a.Enabled())

	out := a.Enrich(context.Background(), PromptInput{ResumeText: "resume"})
	assert.Equal(t, Heuristic{State: StateIdle}, out)

	var nilAdapter *Adapter
	assert.False(t, nilAdapter.Enabled())
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"surrounded", "prefix {\"a\":{\"b\":2}} suffix {\"c\":3}", `{"a":{"b":2}}`, true},
		{"braces in strings", `x {"a":"}{","b":"\"}"} y`, `{"a":"}{","b":"\"}"}`, true},
		{"escaped backslash before quote", `{"a":"\\"}`, `{"a":"\\"}`, true},
		{"unbalanced", `{"a":1`, "", false},
		{"none", "no json here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "prompt_built", StatePromptBuilt.String())
	assert.Equal(t, "fallback_triggered", StateFallbackTriggered.String())
	assert.Equal(t, "state(42)", State(42).String())
}

func TestParseReplyDecodesOptionalFields(t *testing.T) {
	got, err := parseReply(`{"score": 55, "grade": "C+", "feedback": ["x"], "recommendations": ["y", "z"]}`)
	require.NoError(t, err)
	assert.Equal(t, Analysis{Score: 55, Grade: "C+", Feedback: []string{"x"}, Recommendations: []string{"y", "z"}}, got)
}

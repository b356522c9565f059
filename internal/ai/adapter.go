// Package ai enriches a heuristic analysis with a generative model reply.
// Any failure leaves the heuristic result in charge.
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"atscore/internal/errors"
)

// State is a step of one enrichment attempt
type State int

const (
	StateIdle State = iota
	StatePromptBuilt
	StateRequested
	StateParsed
	StateFallbackTriggered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePromptBuilt:
		return "prompt_built"
	case StateRequested:
		return "requested"
	case StateParsed:
		return "parsed"
	case StateFallbackTriggered:
		return "fallback_triggered"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is either Heuristic or Enriched
type Outcome interface {
	outcome()
}

// Heuristic means the heuristic result stands. State is the last state
// reached before falling back; Reason is nil when no generator is configured.
type Heuristic struct {
	State  State
	Reason error
}

// Enriched carries a schema-valid model reply
type Enriched struct {
	Analysis Analysis
	Usage    *TokenUsage
}

func (Heuristic) outcome() {}
func (Enriched) outcome()  {}

// Adapter runs the enrichment state machine. It never retries; retries
// belong to the Generator.
type Adapter struct {
	generator Generator
	prompts   *PromptBuilder
	params    GenerationParams
	logger    *errors.Logger
}

// NewAdapter creates an adapter. A nil generator makes every call fall back.
func NewAdapter(generator Generator, prompts *PromptBuilder, params GenerationParams, logger *errors.Logger) *Adapter {
	return &Adapter{
		generator: generator,
		prompts:   prompts,
		params:    params,
		logger:    logger,
	}
}

// Enabled reports whether a generator is configured
func (a *Adapter) Enabled() bool {
	return a != nil && a.generator != nil
}

// Enrich builds the prompt, calls the generator and parses the reply
func (a *Adapter) Enrich(ctx context.Context, in PromptInput) Outcome {
	if !a.Enabled() {
		return Heuristic{State: StateIdle}
	}

	state := StateIdle
	advance := func(next State) {
		a.logger.Debug("AI adapter transition", "from", state.String(), "to", next.String())
		state = next
	}
	fallback := func(err error) Outcome {
		a.logger.LogError(err, "AI enrichment failed, using heuristic result", "state", state.String())
		last := state
		advance(StateFallbackTriggered)
		return Heuristic{State: last, Reason: err}
	}

	system, prompt := a.prompts.Build(in)
	params := a.params
	params.SystemPrompt = system
	advance(StatePromptBuilt)

	gen, err := a.generator.Generate(ctx, prompt, params)
	advance(StateRequested)
	if err != nil {
		return fallback(errors.NewAIError(errors.ErrCodeAITransportFailed, "Generator call failed", err))
	}
	if gen == nil {
		return fallback(errors.NewAIError(errors.ErrCodeAITransportFailed, "Generator returned no reply", nil))
	}

	analysis, err := parseReply(gen.Text)
	if err != nil {
		return fallback(err)
	}
	advance(StateParsed)

	return Enriched{Analysis: analysis, Usage: gen.Usage}
}

// parseReply extracts, validates and decodes the model reply
func parseReply(text string) (Analysis, error) {
	doc, ok := extractJSONObject(text)
	if !ok {
		return Analysis{}, errors.NewAIError(errors.ErrCodeAIFormatFailed, "No JSON object in reply", nil)
	}

	if err := validateReply(doc); err != nil {
		return Analysis{}, errors.NewAIError(errors.ErrCodeAIFormatFailed, "Reply failed validation", err)
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(doc), &analysis); err != nil {
		return Analysis{}, errors.NewAIError(errors.ErrCodeAIFormatFailed, "Failed to decode reply", err)
	}
	return analysis, nil
}

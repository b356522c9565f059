package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"atscore/internal/config"
	"atscore/internal/types"
)

const truncationMarker = "\n[truncated]"

// TruncationPolicy bounds the amount of resume and job text put into a
// prompt. Limits count runes.
type TruncationPolicy struct {
	ResumeChars         int
	JobDescriptionChars int
}

// TruncationFromConfig converts the config section
func TruncationFromConfig(cfg config.TruncationConfig) TruncationPolicy {
	return TruncationPolicy{ResumeChars: cfg.ResumeChars, JobDescriptionChars: cfg.JobDescriptionChars}
}

// Resume truncates resume text
func (p TruncationPolicy) Resume(s string) string {
	return truncate(s, p.ResumeChars)
}

// JobDescription truncates job description text
func (p TruncationPolicy) JobDescription(s string) string {
	return truncate(s, p.JobDescriptionChars)
}

// truncate keeps at most limit runes of valid UTF-8. A limit <= 0 disables
// truncation.
func truncate(s string, limit int) string {
	s = strings.ToValidUTF8(s, "")
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + truncationMarker
		}
		n++
	}
	return s
}

// PromptInput is what the prompt is built from
type PromptInput struct {
	ResumeText     string
	JobDescription string
	Mode           string
	Heuristic      *types.AnalysisResult
}

// PromptBuilder renders the system and user prompts
type PromptBuilder struct {
	store      *config.PromptStore
	custom     config.PromptConfig
	truncation TruncationPolicy
}

// NewPromptBuilder creates a builder. store may be nil.
func NewPromptBuilder(store *config.PromptStore, custom config.PromptConfig, truncation TruncationPolicy) *PromptBuilder {
	return &PromptBuilder{store: store, custom: custom, truncation: truncation}
}

// Build returns the system prompt and the rendered user prompt
func (b *PromptBuilder) Build(in PromptInput) (string, string) {
	loaded := b.store.Get()
	system := resolvePrompt(loaded.SystemPrompt, b.custom.SystemPrompt, DefaultSystemPrompt)
	template := resolvePrompt(loaded.UserPrompt, b.custom.UserPrompt, DefaultUserPrompt)

	job := "(none provided)"
	if strings.TrimSpace(in.JobDescription) != "" {
		job = b.truncation.JobDescription(in.JobDescription)
	}

	r := strings.NewReplacer(
		TokenResume, b.truncation.Resume(in.ResumeText),
		TokenJobDescription, job,
		TokenFacts, formatFacts(in),
		TokenSchema, ReplySchema,
	)
	return system, r.Replace(template)
}

func formatFacts(in PromptInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Mode: %s\n", in.Mode)

	h := in.Heuristic
	if h == nil {
		return strings.TrimRight(sb.String(), "\n")
	}

	fmt.Fprintf(&sb, "Heuristic score: %d (grade %s, %s scheme)\n", h.Score, h.Grade, h.ScoringScheme)
	fmt.Fprintf(&sb, "Sections: summary=%t experience=%t education=%t skills=%t projects=%t certifications=%t\n",
		h.Sections.Summary, h.Sections.Experience, h.Sections.Education,
		h.Sections.Skills, h.Sections.Projects, h.Sections.Certifications)
	fmt.Fprintf(&sb, "Contact: email=%t phone=%t linkedin=%t\n",
		h.ContactInfo.HasEmail(), h.ContactInfo.HasPhone(), h.ContactInfo.HasLinkedIn())
	fmt.Fprintf(&sb, "Technical keywords: %s\n", listOrNone(h.Keywords.Technical))
	fmt.Fprintf(&sb, "Skills: %s\n", listOrNone(h.Skills))
	fmt.Fprintf(&sb, "Experience entries: %d, education entries: %d\n", len(h.Experience), len(h.Education))
	fmt.Fprintf(&sb, "Layout %d%%, fonts %d%%, content %d%%\n",
		h.Breakdown.LayoutPercent, h.Breakdown.FontsPercent, h.Breakdown.ContentPercent)

	if jm := h.JobMatch; jm != nil {
		fmt.Fprintf(&sb, "Job match: overall %d%%, keywords %d%%, skills %d%%, experience %d%%\n",
			jm.OverallMatch, jm.KeywordMatch, jm.SkillsMatch, jm.ExperienceMatch)
		fmt.Fprintf(&sb, "Missing job keywords: %s\n", listOrNone(jm.MissingKeywords))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

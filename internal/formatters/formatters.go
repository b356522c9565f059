package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"atscore/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry holds the built-in formatters
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResponse", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResponse", &AnalysisMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case *types.AnalysisResponse, types.AnalysisResponse:
		return "AnalysisResponse"
	default:
		return "any"
	}
}

func asResponse(data any) (*types.AnalysisResponse, error) {
	switch r := data.(type) {
	case *types.AnalysisResponse:
		if r == nil {
			return nil, fmt.Errorf("nil AnalysisResponse")
		}
		return r, nil
	case types.AnalysisResponse:
		return &r, nil
	default:
		return nil, fmt.Errorf("expected AnalysisResponse, got %T", data)
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter renders a response for the terminal
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	resp, err := asResponse(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	if !resp.Success || resp.AnalysisResult == nil {
		output.WriteString("=== ANALYSIS FAILED ===\n")
		output.WriteString(resp.Error)
		output.WriteString("\n")
		return output.String(), nil
	}

	output.WriteString("=== ATS SCORE ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100 (%s)\n", resp.Score, resp.Grade))
	output.WriteString(fmt.Sprintf("Mode: %s, scheme: %s, AI enhanced: %t, cached: %t\n",
		resp.AnalysisMode, resp.ScoringScheme, resp.AIEnhanced, resp.Cached))
	if resp.AISummary != "" {
		output.WriteString("\n")
		output.WriteString(resp.AISummary)
		output.WriteString("\n")
	}

	b := resp.Breakdown
	output.WriteString("\n=== BREAKDOWN ===\n")
	output.WriteString(fmt.Sprintf("Layout:  %d/75 (%d%%)\n", b.Layout, b.LayoutPercent))
	output.WriteString(fmt.Sprintf("Fonts:   %d/55 (%d%%)\n", b.Fonts, b.FontsPercent))
	output.WriteString(fmt.Sprintf("Content: %d/100 (%d%%)\n", b.Content, b.ContentPercent))

	if jm := resp.JobMatch; jm != nil {
		output.WriteString("\n=== JOB MATCH ===\n")
		output.WriteString(fmt.Sprintf("Overall: %d%%  Keywords: %d%%  Skills: %d%%  Experience: %d%%\n",
			jm.OverallMatch, jm.KeywordMatch, jm.SkillsMatch, jm.ExperienceMatch))
		if len(jm.MissingKeywords) > 0 {
			output.WriteString("Missing keywords: ")
			output.WriteString(strings.Join(jm.MissingKeywords, ", "))
			output.WriteString("\n")
		}
	}

	writeTextList(&output, "FEEDBACK", resp.Feedback)
	writeTextList(&output, "STRENGTHS", resp.Strengths)
	writeTextList(&output, "WEAKNESSES", resp.Weaknesses)
	writeTextList(&output, "RECOMMENDATIONS", resp.Recommendations)

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResponse"
}

func writeTextList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString(fmt.Sprintf("\n=== %s ===\n", title))
	for i, item := range items {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
	}
}

// AnalysisMarkdownFormatter renders a response as a markdown report
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	resp, err := asResponse(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	output.WriteString("# ATS Resume Analysis\n\n")
	if !resp.Success || resp.AnalysisResult == nil {
		output.WriteString("**Analysis failed:** ")
		output.WriteString(resp.Error)
		output.WriteString("\n")
		return output.String(), nil
	}

	output.WriteString(fmt.Sprintf("**Score:** %d/100 (%s)\n\n", resp.Score, resp.Grade))
	output.WriteString(fmt.Sprintf("**Mode:** %s | **Scheme:** %s | **AI enhanced:** %t\n\n",
		resp.AnalysisMode, resp.ScoringScheme, resp.AIEnhanced))
	if resp.AISummary != "" {
		output.WriteString("> ")
		output.WriteString(resp.AISummary)
		output.WriteString("\n\n")
	}

	b := resp.Breakdown
	output.WriteString("## Breakdown\n\n")
	output.WriteString("| Axis | Points | Percent |\n|---|---|---|\n")
	output.WriteString(fmt.Sprintf("| Layout | %d/75 | %d%% |\n", b.Layout, b.LayoutPercent))
	output.WriteString(fmt.Sprintf("| Fonts | %d/55 | %d%% |\n", b.Fonts, b.FontsPercent))
	output.WriteString(fmt.Sprintf("| Content | %d/100 | %d%% |\n\n", b.Content, b.ContentPercent))

	if jm := resp.JobMatch; jm != nil {
		output.WriteString("## Job Match\n\n")
		output.WriteString(fmt.Sprintf("**Overall:** %d%%\n\n", jm.OverallMatch))
		if len(jm.MatchedKeywords) > 0 {
			output.WriteString("**Matched keywords:** ")
			output.WriteString(strings.Join(jm.MatchedKeywords, ", "))
			output.WriteString("\n\n")
		}
		if len(jm.MissingKeywords) > 0 {
			output.WriteString("**Missing keywords:** ")
			output.WriteString(strings.Join(jm.MissingKeywords, ", "))
			output.WriteString("\n\n")
		}
	}

	writeMarkdownList(&output, "Feedback", resp.Feedback)
	writeMarkdownList(&output, "Strengths", resp.Strengths)
	writeMarkdownList(&output, "Weaknesses", resp.Weaknesses)
	writeMarkdownList(&output, "Recommendations", resp.Recommendations)

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResponse"
}

func writeMarkdownList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString(fmt.Sprintf("## %s\n\n", title))
	for _, item := range items {
		output.WriteString("- ")
		output.WriteString(item)
		output.WriteString("\n")
	}
	output.WriteString("\n")
}

// Package scoring holds the layout, font and content scorers and the two
// aggregation strategies that turn them into a total and a letter grade.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"atscore/internal/errors"
	"atscore/internal/extractor"
	"atscore/internal/types"
)

const maxTotal = 100

// Fallback scheme points
const (
	fallbackEmail        = 10
	fallbackPhone        = 10
	fallbackPerSection   = 5
	fallbackExperience   = 25
	fallbackEducation    = 15
	fallbackSkills       = 10
	fallbackMinSkillList = 5
)

// Scorecard is everything a strategy produces for one resume
type Scorecard struct {
	Breakdown types.ScoreBreakdown
	Layout    types.LayoutFlags
	Content   types.ContentFacts
	Score     int
	Grade     string
	Scheme    string
}

// Strategy turns extracted facts into a total score and grade
type Strategy interface {
	Name() string
	Score(doc *types.ExtractedDocument, ex extractor.Extraction) Scorecard
}

// Advanced sums layout, fonts and content, capped at 100, and grades on
// the seven-band scale.
type Advanced struct{}

func (Advanced) Name() string { return types.SchemeAdvanced }

func (Advanced) Score(doc *types.ExtractedDocument, ex extractor.Extraction) Scorecard {
	card := baseCard(doc, ex)
	card.Score = card.Breakdown.Total
	card.Grade = Grade7(card.Score)
	card.Scheme = types.SchemeAdvanced
	return card
}

// Fallback is the simple five-factor scheme graded on the four-band scale.
// Layout and content sub-scores are still computed so the breakdown is
// always populated.
type Fallback struct{}

func (Fallback) Name() string { return types.SchemeFallback }

func (Fallback) Score(doc *types.ExtractedDocument, ex extractor.Extraction) Scorecard {
	card := baseCard(doc, ex)
	card.Score = FallbackTotal(ex)
	card.Grade = Grade4(card.Score)
	card.Scheme = types.SchemeFallback
	return card
}

// FallbackTotal computes the five-factor score: contact, sections,
// experience, education and a skills list of reasonable length.
func FallbackTotal(ex extractor.Extraction) int {
	total := points(ex.Contact.HasEmail(), fallbackEmail) +
		points(ex.Contact.HasPhone(), fallbackPhone) +
		ex.Sections.Present()*fallbackPerSection +
		points(ex.Sections.Experience || len(ex.Experience) > 0, fallbackExperience) +
		points(ex.Sections.Education || len(ex.Education) > 0, fallbackEducation) +
		points(len(ex.Skills) >= fallbackMinSkillList, fallbackSkills)
	return min(total, maxTotal)
}

func baseCard(doc *types.ExtractedDocument, ex extractor.Extraction) Scorecard {
	layout := EvaluateLayout(doc, ex.Sections)
	content := EvaluateContent(ex)

	return Scorecard{
		Breakdown: types.ScoreBreakdown{
			Layout:         layout.Layout,
			Fonts:          layout.Fonts,
			Content:        content.Content,
			Total:          min(layout.Layout+layout.Fonts+content.Content, maxTotal),
			LayoutPercent:  percent(layout.Layout, MaxLayout),
			FontsPercent:   percent(layout.Fonts, MaxFonts),
			ContentPercent: percent(content.Content, MaxContent),
		},
		Layout:  layout.Flags,
		Content: content.Facts,
	}
}

func percent(value, max int) int {
	if max == 0 {
		return 0
	}
	return int(math.Round(float64(value) * 100 / float64(max)))
}

// StrategyByName resolves a configured strategy name. An empty name selects
// the five-factor fallback scheme; advanced is opt-in.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", types.SchemeFallback:
		return Fallback{}, nil
	case types.SchemeAdvanced:
		return Advanced{}, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown scoring strategy %q (valid: %s, %s)", name, types.SchemeAdvanced, types.SchemeFallback),
			nil,
		)
	}
}

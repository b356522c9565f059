package extractor

import (
	"strings"

	"atscore/internal/types"
)

// ExtractKeywords matches every vocabulary by substring containment against
// the lower-cased text. No stemming or tokenization: "java" is found inside
// "javascript", which is a known recall/precision tradeoff.
func ExtractKeywords(text string) types.KeywordBundle {
	lower := strings.ToLower(text)
	return types.KeywordBundle{
		Technical:  FindTerms(lower, TechnicalTerms),
		Soft:       FindTerms(lower, SoftTerms),
		Action:     FindTerms(lower, ActionTerms),
		Education:  FindTerms(lower, EducationTerms),
		Experience: FindTerms(lower, ExperienceTerms),
	}
}

// FindTerms returns the vocabulary terms contained in lowerText, in
// vocabulary order and without duplicates.
func FindTerms(lowerText string, vocabulary []string) []string {
	found := make([]string, 0)
	seen := make(map[string]bool, len(vocabulary))
	for _, term := range vocabulary {
		if seen[term] {
			continue
		}
		if strings.Contains(lowerText, term) {
			found = append(found, term)
			seen[term] = true
		}
	}
	return found
}

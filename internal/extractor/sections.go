package extractor

import (
	"regexp"
	"strings"

	"atscore/internal/types"
)

var yearToken = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// DetectSections reports which canonical sections are mentioned anywhere in
// the text, using case-insensitive substring matching against synonyms.
func DetectSections(text string) types.SectionMap {
	lower := strings.ToLower(text)
	has := func(s Section) bool {
		for _, synonym := range sectionSynonyms[s] {
			if strings.Contains(lower, synonym) {
				return true
			}
		}
		return false
	}

	return types.SectionMap{
		Summary:        has(SectionSummary),
		Experience:     has(SectionExperience),
		Education:      has(SectionEducation),
		Skills:         has(SectionSkills),
		Projects:       has(SectionProjects),
		Certifications: has(SectionCertifications),
	}
}

// SectionNames returns the names of present sections in canonical order
func SectionNames(sections types.SectionMap) []string {
	return sections.Names()
}

// HeaderSection returns the section a line introduces, if it is a header
func HeaderSection(line string) (Section, bool) {
	s, ok := headerPhrases[normalizeHeader(line)]
	return s, ok
}

// normalizeHeader lowercases a line and strips decoration such as markdown
// hashes, underline characters and a trailing colon.
func normalizeHeader(line string) string {
	l := strings.ToLower(strings.TrimSpace(line))
	l = strings.Trim(l, "#*=_ \t")
	l = strings.TrimSuffix(l, ":")
	return strings.Join(strings.Fields(l), " ")
}

// CountYearTokens counts year-like tokens (1900-2099) in the text
func CountYearTokens(text string) int {
	return len(yearToken.FindAllStringIndex(text, -1))
}

// isBulletLine reports whether a trimmed line starts with a bullet glyph and
// returns the remaining text.
func isBulletLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, glyph := range bulletGlyphs {
		if strings.HasPrefix(trimmed, glyph) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, glyph)), true
		}
	}
	return "", false
}

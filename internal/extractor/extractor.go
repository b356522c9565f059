// Package extractor turns raw resume text into structural facts: sections,
// contact fields, keyword categories, skills and coarse experience/education
// entries. Every rule is a pure function so it can be tested and replaced on
// its own.
package extractor

import "atscore/internal/types"

// Extraction is everything the extractor derives from one text
type Extraction struct {
	Sections   types.SectionMap
	Contact    types.ContactInfo
	Keywords   types.KeywordBundle
	Experience []types.ExperienceEntry
	Education  []types.EducationEntry
	Skills     []string
	YearTokens int
}

// Extract runs all extraction rules over text
func Extract(text string) Extraction {
	keywords := ExtractKeywords(text)
	return Extraction{
		Sections:   DetectSections(text),
		Contact:    ExtractContact(text),
		Keywords:   keywords,
		Experience: ExtractExperience(text),
		Education:  ExtractEducation(text),
		Skills:     ExtractSkills(text, keywords.Technical),
		YearTokens: CountYearTokens(text),
	}
}

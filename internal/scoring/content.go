package scoring

import (
	"atscore/internal/extractor"
	"atscore/internal/types"
)

// Content axis structural points. They sum to 75; keyword density adds up
// to maxDensityPoints more.
const (
	pointsSummary    = 15
	pointsExperience = 20
	pointsSkills     = 15
	pointsEducation  = 10
	pointsContact    = 15

	maxDensityPoints = 25
	densityWeight    = 2
	minYearTokens    = 2

	MaxContent = 100
)

// ContentScore is the content evaluation of one extraction
type ContentScore struct {
	Facts   types.ContentFacts
	Content int
}

// EvaluateContent scores the structural completeness of a resume plus its
// technical keyword density.
func EvaluateContent(ex extractor.Extraction) ContentScore {
	facts := types.ContentFacts{
		HasProfessionalSummary: ex.Sections.Summary,
		HasDetailedExperience:  ex.Sections.Experience && ex.YearTokens >= minYearTokens,
		HasRelevantSkills:      ex.Sections.Skills && len(ex.Skills) > 0,
		HasEducationInfo:       ex.Sections.Education,
		HasContactInfo:         HasContactInfo(ex.Contact),
		KeywordDensity:         len(ex.Keywords.Technical),
	}

	structural := points(facts.HasProfessionalSummary, pointsSummary) +
		points(facts.HasDetailedExperience, pointsExperience) +
		points(facts.HasRelevantSkills, pointsSkills) +
		points(facts.HasEducationInfo, pointsEducation) +
		points(facts.HasContactInfo, pointsContact)

	content := min(structural+min(facts.KeywordDensity*densityWeight, maxDensityPoints), MaxContent)
	return ContentScore{Facts: facts, Content: content}
}

// HasContactInfo requires both an email and a phone number
func HasContactInfo(c types.ContactInfo) bool {
	return c.HasEmail() && c.HasPhone()
}

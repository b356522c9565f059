// Package feedback maps extracted and scored facts to fixed, human-readable
// feedback. Rules run in a fixed order and never depend on AI output.
package feedback

import (
	"fmt"
	"strings"

	"atscore/internal/extractor"
	"atscore/internal/types"
)

const (
	minTechnicalKeywords = 5
	minActionVerbs       = 3
	minSkills            = 5
	minProperHeaders     = 4
	strongMatch          = 70
	weakSkillsMatch      = 50
)

// Fixed feedback lines, in evaluation order
const (
	MsgNoSummary        = "Add a professional summary at the top of your resume."
	MsgNoExperience     = "Add a work experience section with your roles and achievements."
	MsgNoEducation      = "Add an education section with your degrees and institutions."
	MsgNoSkills         = "Add a dedicated skills section."
	MsgNoEmail          = "Include a professional email address."
	MsgNoPhone          = "Include a phone number."
	MsgFewTechnical     = "Include more technical keywords relevant to your target role."
	MsgFewActionVerbs   = "Start bullet points with strong action verbs such as developed or implemented."
	MsgFewSkills        = "List at least 5 relevant skills."
	MsgNoLinkedIn       = "Add your LinkedIn profile URL."
	recTablesAndImages  = "Use a single-column layout without tables or images so ATS parsers can read every line."
	recLength           = "Keep the resume to one or two pages."
	recStandardFonts    = "Use a standard font such as Arial or Calibri."
	recFontSizing       = "Keep body text between 9 and 14 points."
	recFancyFormatting  = "Replace decorative symbols and emoji with plain bullets."
	recDatedExperience  = "Add start and end dates to each role."
	recSkillsAlignment  = "Align your skills section with the skills the job description lists."
	recMissingKeywordsF = "Add these keywords from the job description where they apply: %s."
	recExperienceGapF   = "The role asks for %d years of experience and the resume states %d; make relevant experience easy to find."
)

// Input is everything the feedback rules look at
type Input struct {
	Extraction extractor.Extraction
	Layout     types.LayoutFlags
	Content    types.ContentFacts
	JobMatch   *types.JobMatchResult
}

// Report is the full feedback for one analysis
type Report struct {
	Feedback        []string
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
}

// Generate evaluates all feedback rules
func Generate(in Input) Report {
	return Report{
		Feedback:        Feedback(in.Extraction),
		Strengths:       strengths(in),
		Weaknesses:      weaknesses(in),
		Recommendations: recommendations(in),
	}
}

// Feedback appends one fixed line per missing positive signal
func Feedback(ex extractor.Extraction) []string {
	rules := []struct {
		missing bool
		message string
	}{
		{!ex.Sections.Summary, MsgNoSummary},
		{!ex.Sections.Experience, MsgNoExperience},
		{!ex.Sections.Education, MsgNoEducation},
		{!ex.Sections.Skills, MsgNoSkills},
		{!ex.Contact.HasEmail(), MsgNoEmail},
		{!ex.Contact.HasPhone(), MsgNoPhone},
		{len(ex.Keywords.Technical) < minTechnicalKeywords, MsgFewTechnical},
		{len(ex.Keywords.Action) < minActionVerbs, MsgFewActionVerbs},
		{len(ex.Skills) < minSkills, MsgFewSkills},
		{!ex.Contact.HasLinkedIn(), MsgNoLinkedIn},
	}

	out := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.missing {
			out = append(out, r.message)
		}
	}
	return out
}

func strengths(in Input) []string {
	ex := in.Extraction
	out := make([]string, 0)

	if ex.Sections.Present() >= minProperHeaders {
		out = append(out, "Clear structure with standard resume sections")
	}
	if in.Content.HasContactInfo {
		out = append(out, "Complete contact information")
	}
	if len(ex.Keywords.Technical) >= minTechnicalKeywords {
		out = append(out, fmt.Sprintf("Strong technical keyword coverage (%d terms)", len(ex.Keywords.Technical)))
	}
	if len(ex.Keywords.Action) >= minActionVerbs {
		out = append(out, "Achievement-oriented language with action verbs")
	}
	if in.Content.HasDetailedExperience && len(ex.Experience) > 0 {
		out = append(out, "Dated work history entries")
	}
	if in.Layout.StandardFormat && in.Layout.ConsistentFormatting {
		out = append(out, "ATS-friendly formatting")
	}
	if in.JobMatch != nil && in.JobMatch.OverallMatch >= strongMatch {
		out = append(out, fmt.Sprintf("Strong match with the job description (%d%%)", in.JobMatch.OverallMatch))
	}
	return out
}

func weaknesses(in Input) []string {
	ex := in.Extraction
	out := make([]string, 0)

	if missing := missingSections(ex.Sections); len(missing) > 0 {
		out = append(out, "Missing sections: "+strings.Join(missing, ", "))
	}
	if !in.Content.HasContactInfo {
		out = append(out, "Incomplete contact information")
	}
	if len(ex.Keywords.Technical) < minTechnicalKeywords {
		out = append(out, "Limited technical keywords")
	}
	if !in.Layout.NoTables {
		out = append(out, "Tables may not be parsed correctly by ATS systems")
	}
	if !in.Layout.NoGraphics {
		out = append(out, "Images and graphics are ignored by ATS systems")
	}
	if !in.Layout.ConsistentFormatting {
		out = append(out, "Inconsistent bullet styles")
	}
	if in.JobMatch != nil && len(in.JobMatch.MissingKeywords) > 0 {
		out = append(out, fmt.Sprintf("%d job keywords not found in the resume", len(in.JobMatch.MissingKeywords)))
	}
	return out
}

func recommendations(in Input) []string {
	out := make([]string, 0)

	if !in.Layout.StandardFormat {
		out = append(out, recTablesAndImages)
	}
	if !in.Layout.AppropriateLength {
		out = append(out, recLength)
	}
	if !in.Layout.UsesStandardFonts {
		out = append(out, recStandardFonts)
	}
	if !in.Layout.ProperFontSizing {
		out = append(out, recFontSizing)
	}
	if !in.Layout.NoFancyFormatting {
		out = append(out, recFancyFormatting)
	}
	if in.Extraction.Sections.Experience && !in.Content.HasDetailedExperience {
		out = append(out, recDatedExperience)
	}

	if jm := in.JobMatch; jm != nil {
		if len(jm.MissingKeywords) > 0 {
			out = append(out, fmt.Sprintf(recMissingKeywordsF, strings.Join(jm.MissingKeywords, ", ")))
		}
		if jm.SkillsMatch < weakSkillsMatch {
			out = append(out, recSkillsAlignment)
		}
		if jm.ExperienceMatch < 100 {
			out = append(out, fmt.Sprintf(recExperienceGapF, jm.RequiredYears, jm.CandidateYears))
		}
	}
	return out
}

func missingSections(sections types.SectionMap) []string {
	present := make(map[string]bool)
	for _, name := range extractor.SectionNames(sections) {
		present[name] = true
	}
	missing := make([]string, 0)
	for _, s := range extractor.CanonicalSections {
		if !present[string(s)] {
			missing = append(missing, string(s))
		}
	}
	return missing
}

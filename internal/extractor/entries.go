package extractor

import (
	"regexp"
	"strings"

	"atscore/internal/types"
)

var (
	jobTitlePattern = regexp.MustCompile(`(?i)\b(?:engineer|developer|manager|analyst|designer|consultant|intern|director|lead|architect|specialist|administrator|scientist|coordinator|programmer|technician)\b`)
	employerPattern = regexp.MustCompile(`(?i)\b(?:inc|llc|ltd|corp|corporation|company|technologies|solutions|group|labs|systems|gmbh|agency|bank)\b`)
	degreePattern   = regexp.MustCompile(`(?i)\b(?:bachelor|master|ph\.?d|doctorate|associate degree|diploma|mba|b\.sc|m\.sc|b\.s\.|m\.s\.|b\.a\.|m\.a\.)`)
	schoolPattern   = regexp.MustCompile(`(?i)\b(?:university|college|institute|school|academy|polytechnic)\b`)
	durationPattern = regexp.MustCompile(`(?i)\b(?:(?:19|20)\d{2}|jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?|present|current)\b`)
)

// entryRules parameterize the line scanner for one target section
type entryRules struct {
	section Section
	title   *regexp.Regexp
	org     *regexp.Regexp
}

var (
	experienceRules = entryRules{section: SectionExperience, title: jobTitlePattern, org: employerPattern}
	educationRules  = entryRules{section: SectionEducation, title: degreePattern, org: schoolPattern}
)

// rawEntry is the scanner's working record before it is typed
type rawEntry struct {
	title       string
	org         string
	duration    string
	description []string
}

// scanEntries runs a two-state machine over the lines of text. It enters the
// target section on one of its header lines and leaves on a header of any
// other known section. Inside, a title line starts a new entry, an
// organization line fills the organization once, a date line fills the
// duration once, and bullet lines extend the description. The scanner never
// backtracks, so one misclassified line can shift data between entries.
func scanEntries(text string, rules entryRules) []rawEntry {
	var (
		entries []rawEntry
		current *rawEntry
		inside  bool
	)

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if section, ok := HeaderSection(trimmed); ok {
			if section == rules.section {
				inside = true
			} else if inside {
				flush()
				inside = false
			}
			continue
		}

		if !inside {
			continue
		}

		if rest, ok := isBulletLine(trimmed); ok {
			if current != nil && rest != "" {
				current.description = append(current.description, rest)
			}
			continue
		}

		switch {
		case rules.title.MatchString(trimmed):
			flush()
			current = &rawEntry{title: trimmed}
		case rules.org.MatchString(trimmed):
			if current != nil && current.org == "" {
				current.org = trimmed
			}
		case durationPattern.MatchString(trimmed):
			if current != nil && current.duration == "" {
				current.duration = trimmed
			}
		}
	}
	flush()

	return entries
}

// ExtractExperience returns coarse work history entries
func ExtractExperience(text string) []types.ExperienceEntry {
	raw := scanEntries(text, experienceRules)
	entries := make([]types.ExperienceEntry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, types.ExperienceEntry{
			Title:        e.title,
			Organization: e.org,
			Duration:     e.duration,
			Description:  strings.Join(e.description, " "),
		})
	}
	return entries
}

// ExtractEducation returns coarse education entries
func ExtractEducation(text string) []types.EducationEntry {
	raw := scanEntries(text, educationRules)
	entries := make([]types.EducationEntry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, types.EducationEntry{
			Degree:      e.title,
			Institution: e.org,
			Duration:    e.duration,
			Description: strings.Join(e.description, " "),
		})
	}
	return entries
}

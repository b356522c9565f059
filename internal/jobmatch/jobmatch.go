// Package jobmatch compares a resume against a job description using
// keyword, skill and years-of-experience overlap.
package jobmatch

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"atscore/internal/extractor"
	"atscore/internal/types"
)

const (
	minKeywordLen      = 4
	maxMissingKeywords = 10
	maxSkillItemLen    = 40
	fullMatch          = 100
)

var (
	skillListPattern   = regexp.MustCompile(`(?i)(?:skills|technologies)\s*:\s*([^\n]+)`)
	skillPhrasePattern = regexp.MustCompile(`(?i)(?:proficient in|experience with|knowledge of|familiar with|expertise in)\s+([^\n]+)`)
	skillSeparators    = regexp.MustCompile(`\s*(?:[,;/|]|\band\b)\s*`)
	yearsPattern       = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)\s*(?:of)?\s*(?:professional\s+)?experience`)
)

// Compare computes the match between a resume text and a job description
func Compare(resumeText, jobDescription string) types.JobMatchResult {
	jobKeywords := ExtractKeywords(jobDescription)
	resumeKeywords := ExtractKeywords(resumeText)
	matched, missing := partition(jobKeywords, resumeKeywords)

	jobSkills := ExtractSkills(jobDescription)
	resumeSkills := ExtractSkills(resumeText)
	matchedSkills, _ := partition(jobSkills, resumeSkills)

	required, _ := ParseYears(jobDescription)
	actual, _ := ParseYears(resumeText)

	keywordMatch := ratio(len(matched), len(jobKeywords))
	skillsMatch := ratio(len(matchedSkills), len(jobSkills))
	experienceMatch := ExperienceMatch(actual, required)

	if len(missing) > maxMissingKeywords {
		missing = missing[:maxMissingKeywords]
	}

	return types.JobMatchResult{
		KeywordMatch:    keywordMatch,
		SkillsMatch:     skillsMatch,
		ExperienceMatch: experienceMatch,
		OverallMatch:    int(math.Round(float64(keywordMatch+skillsMatch+experienceMatch) / 3)),
		MatchedKeywords: matched,
		MissingKeywords: missing,
		RequiredYears:   required,
		CandidateYears:  actual,
	}
}

// ExtractKeywords returns the words of text (lower-cased, longer than three
// characters) that contain or are contained in a technical vocabulary term.
// Order is scan order, duplicates removed.
func ExtractKeywords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '/'
	})

	keywords := make([]string, 0)
	seen := make(map[string]bool)
	for _, w := range words {
		if len(w) < minKeywordLen || seen[w] {
			continue
		}
		for _, term := range extractor.TechnicalTerms {
			if strings.Contains(term, w) || strings.Contains(w, term) {
				keywords = append(keywords, w)
				seen[w] = true
				break
			}
		}
	}
	return keywords
}

// ExtractSkills captures free-form skill lists such as "Skills: a, b" or
// "proficient in a and b". A capture ends at the first sentence break.
func ExtractSkills(text string) []string {
	skills := make([]string, 0)
	seen := make(map[string]bool)

	for _, pattern := range []*regexp.Regexp{skillListPattern, skillPhrasePattern} {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			capture := m[1]
			if idx := strings.Index(capture, ". "); idx >= 0 {
				capture = capture[:idx]
			}
			capture = strings.TrimSuffix(strings.TrimSpace(capture), ".")

			for _, item := range skillSeparators.Split(strings.ToLower(capture), -1) {
				item = strings.TrimSpace(item)
				if item == "" || len(item) > maxSkillItemLen || seen[item] {
					continue
				}
				seen[item] = true
				skills = append(skills, item)
			}
		}
	}
	return skills
}

// ParseYears returns the first "<N> years of experience" figure in text
func ParseYears(text string) (int, bool) {
	m := yearsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExperienceMatch is 100 when nothing is required or the candidate meets
// the requirement, otherwise the rounded ratio of actual to required.
func ExperienceMatch(actual, required int) int {
	if required <= 0 || actual >= required {
		return fullMatch
	}
	return ratio(actual, required)
}

// partition splits wanted into items matched by any of have (bidirectional
// containment) and the rest, keeping wanted's order.
func partition(wanted, have []string) (matched, missing []string) {
	matched = make([]string, 0, len(wanted))
	missing = make([]string, 0)
	for _, w := range wanted {
		if containsEither(w, have) {
			matched = append(matched, w)
		} else {
			missing = append(missing, w)
		}
	}
	return matched, missing
}

func containsEither(item string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(item, c) || strings.Contains(c, item) {
			return true
		}
	}
	return false
}

// ratio is round(n/total*100) with 0/0 defined as 0
func ratio(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

package extractor

import (
	"regexp"
	"strings"
)

var skillSeparators = regexp.MustCompile(`[,;|•]`)

const (
	maxSkillWords = 4
	maxSkillChars = 40
)

// ExtractSkills returns the technical terms found in the text followed by
// the short items listed under a Skills header, deduplicated
// case-insensitively.
func ExtractSkills(text string, technical []string) []string {
	skills := make([]string, 0, len(technical))
	seen := make(map[string]bool)
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		skills = append(skills, s)
	}

	for _, term := range technical {
		add(strings.ToLower(term))
	}
	for _, item := range skillSectionItems(text) {
		add(item)
	}
	return skills
}

// skillSectionItems collects separator-delimited items from lines under a
// Skills header. A "Label: a, b" prefix is dropped and items longer than a
// short phrase are ignored, so free-text sentences do not become skills.
func skillSectionItems(text string) []string {
	var (
		items  []string
		inside bool
	)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if section, ok := HeaderSection(trimmed); ok {
			inside = section == SectionSkills
			continue
		}
		if !inside {
			continue
		}

		if rest, ok := isBulletLine(trimmed); ok {
			trimmed = rest
		}
		if idx := strings.Index(trimmed, ":"); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}

		for _, part := range skillSeparators.Split(trimmed, -1) {
			item := strings.ToLower(strings.Trim(strings.TrimSpace(part), "."))
			if item == "" || len(item) > maxSkillChars {
				continue
			}
			if words := len(strings.Fields(item)); words == 0 || words > maxSkillWords {
				continue
			}
			items = append(items, item)
		}
	}
	return items
}

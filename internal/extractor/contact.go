package extractor

import (
	"regexp"

	"atscore/internal/types"
)

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:\+?\d{1,3}[ .\-]?)?(?:\(\d{3}\)|\d{3})[ .\-]?\d{3}[ .\-]?\d{4}\b`)
	linkedInPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9_\-%]+`)
	gitHubPattern   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_\-]+`)
)

// ExtractContact returns the first match for each contact field
func ExtractContact(text string) types.ContactInfo {
	return types.ContactInfo{
		Email:    emailPattern.FindString(text),
		Phone:    phonePattern.FindString(text),
		LinkedIn: linkedInPattern.FindString(text),
		GitHub:   gitHubPattern.FindString(text),
	}
}

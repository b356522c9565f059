package common

import (
	"fmt"
	"slices"
	"strings"

	"atscore/internal/types"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ResolveMode turns the --mode flag into an analysis mode. An empty flag
// picks job-specific when a job description was given, else defaultMode.
func ResolveMode(flag string, hasJob bool, defaultMode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "":
		if hasJob {
			return types.ModeJobSpecific, nil
		}
		if defaultMode == "" {
			return types.ModeGeneral, nil
		}
		return defaultMode, nil
	case types.ModeGeneral:
		return types.ModeGeneral, nil
	case types.ModeJobSpecific, "job":
		if !hasJob {
			return "", fmt.Errorf("mode %s requires --job or --job-file", types.ModeJobSpecific)
		}
		return types.ModeJobSpecific, nil
	default:
		return "", fmt.Errorf("unsupported mode '%s'. Supported modes: [%s %s]", flag, types.ModeGeneral, types.ModeJobSpecific)
	}
}

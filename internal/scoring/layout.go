package scoring

import (
	"strings"

	"atscore/internal/types"
)

// Layout axis points. They sum to MaxLayout.
const (
	pointsProperHeaders     = 20
	pointsConsistentFormat  = 15
	pointsNoTables          = 10
	pointsNoGraphics        = 10
	pointsStandardFormat    = 10
	pointsAppropriateLength = 10

	MaxLayout = 75
)

// Font axis points. They sum to MaxFonts.
const (
	pointsStandardFonts   = 20
	pointsConsistentFonts = 15
	pointsProperSizing    = 10
	pointsNoFancy         = 10

	MaxFonts = 55
)

const (
	minHeaderSections  = 4
	maxFormatDrift     = 3
	maxDistinctFonts   = 3
	maxPages           = 2
	minFontSizePoints  = 9.0
	maxFontSizePoints  = 14.0
	bulletGlyph        = "•"
	dashLinePrefix     = "-"
	decorativeGlyphSet = "★☆✓✔➤►◆❖✦"
)

var standardFonts = map[string]bool{
	"arial":           true,
	"calibri":         true,
	"times new roman": true,
	"helvetica":       true,
	"georgia":         true,
	"garamond":        true,
	"cambria":         true,
	"verdana":         true,
	"tahoma":          true,
	"book antiqua":    true,
	"trebuchet ms":    true,
}

// LayoutScore is the layout and font evaluation of one document
type LayoutScore struct {
	Flags  types.LayoutFlags
	Layout int
	Fonts  int
}

// EvaluateLayout derives the layout and font flags from decoder metadata and
// the detected sections, and sums their fixed points.
func EvaluateLayout(doc *types.ExtractedDocument, sections types.SectionMap) LayoutScore {
	flags := types.LayoutFlags{
		HasProperHeaders:     sections.Present() >= minHeaderSections,
		ConsistentFormatting: consistentFormatting(doc.RawText),
		NoTables:             !doc.HasTables,
		NoGraphics:           !doc.HasImages,
		StandardFormat:       !doc.HasTables && !doc.HasImages,
		AppropriateLength:    doc.PageCount >= 1 && doc.PageCount <= maxPages,
		UsesStandardFonts:    usesStandardFonts(doc.FontsUsed),
		ConsistentFonts:      len(doc.FontsUsed) <= maxDistinctFonts,
		ProperFontSizing:     properFontSizing(doc.FontSizes),
		NoFancyFormatting:    !hasFancyFormatting(doc.RawText),
	}

	layout := points(flags.HasProperHeaders, pointsProperHeaders) +
		points(flags.ConsistentFormatting, pointsConsistentFormat) +
		points(flags.NoTables, pointsNoTables) +
		points(flags.NoGraphics, pointsNoGraphics) +
		points(flags.StandardFormat, pointsStandardFormat) +
		points(flags.AppropriateLength, pointsAppropriateLength)

	fonts := points(flags.UsesStandardFonts, pointsStandardFonts) +
		points(flags.ConsistentFonts, pointsConsistentFonts) +
		points(flags.ProperFontSizing, pointsProperSizing) +
		points(flags.NoFancyFormatting, pointsNoFancy)

	return LayoutScore{Flags: flags, Layout: layout, Fonts: fonts}
}

// consistentFormatting compares bullet glyphs with dash-led lines. A resume
// mixing both styles heavily is treated as inconsistent.
func consistentFormatting(text string) bool {
	bullets := strings.Count(text, bulletGlyph)
	dashes := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), dashLinePrefix) {
			dashes++
		}
	}
	diff := bullets - dashes
	if diff < 0 {
		diff = -diff
	}
	return diff < maxFormatDrift
}

// usesStandardFonts is true when every reported font is in the standard
// set; no font data at all counts as standard.
func usesStandardFonts(fonts []string) bool {
	for _, f := range fonts {
		if !standardFonts[normalizeFont(f)] {
			return false
		}
	}
	return true
}

func normalizeFont(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func properFontSizing(sizes []float64) bool {
	for _, s := range sizes {
		if s < minFontSizePoints || s > maxFontSizePoints {
			return false
		}
	}
	return true
}

func hasFancyFormatting(text string) bool {
	if strings.ContainsAny(text, decorativeGlyphSet) {
		return true
	}
	for _, r := range text {
		if isEmoji(r) {
			return true
		}
	}
	return false
}

// isEmoji covers the pictograph, emoticon and dingbat blocks
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	}
	return false
}

func points(ok bool, value int) int {
	if ok {
		return value
	}
	return 0
}

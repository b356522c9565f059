package scoring

import (
	"testing"

	"atscore/internal/errors"
	"atscore/internal/extractor"
	"atscore/internal/types"
)

const johnDoe = "John Doe\njohn@x.com\n555-123-4567\nSummary\nExperienced engineer.\nExperience\nSoftware Engineer\nAcme Inc\n2019-2022\n- built systems\nEducation\nBachelor of Science\nState University\n2015-2019\nSkills\njavascript python react sql docker"

var fourSections = types.SectionMap{Summary: true, Experience: true, Education: true, Skills: true}

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		total  int
		grade7 string
		grade4 string
	}{
		{100, "A+", "A"},
		{90, "A+", "A"},
		{89, "A", "A"},
		{80, "A", "A"},
		{79, "B+", "B"},
		{70, "B+", "B"},
		{69, "B", "B"},
		{60, "B", "B"},
		{59, "C+", "C"},
		{50, "C+", "C"},
		{49, "C", "C"},
		{40, "C", "C"},
		{39, "D", "D"},
		{0, "D", "D"},
	}

	for _, tt := range tests {
		if got := Grade7(tt.total); got != tt.grade7 {
			t.Errorf("Grade7(%d) = %s, want %s", tt.total, got, tt.grade7)
		}
		if got := Grade4(tt.total); got != tt.grade4 {
			t.Errorf("Grade4(%d) = %s, want %s", tt.total, got, tt.grade4)
		}
	}
}

func TestEvaluateLayout(t *testing.T) {
	tests := []struct {
		name       string
		doc        types.ExtractedDocument
		sections   types.SectionMap
		wantLayout int
		wantFonts  int
		check      func(t *testing.T, f types.LayoutFlags)
	}{
		{
			name:       "clean single page document",
			doc:        types.ExtractedDocument{RawText: "plain text", PageCount: 1},
			sections:   fourSections,
			wantLayout: MaxLayout,
			wantFonts:  MaxFonts,
		},
		{
			name:       "tables and images",
			doc:        types.ExtractedDocument{RawText: "x", PageCount: 1, HasTables: true, HasImages: true},
			sections:   fourSections,
			wantLayout: 45,
			wantFonts:  MaxFonts,
			check: func(t *testing.T, f types.LayoutFlags) {
				if f.NoTables || f.NoGraphics || f.StandardFormat {
					t.Errorf("expected table/graphic flags to be false, got %+v", f)
				}
			},
		},
		{
			name:       "too few sections and too long",
			doc:        types.ExtractedDocument{RawText: "x", PageCount: 3},
			sections:   types.SectionMap{Skills: true},
			wantLayout: 45,
			wantFonts:  MaxFonts,
		},
		{
			name:       "mixed bullet styles",
			doc:        types.ExtractedDocument{RawText: "• a\n• b\n• c\n• d", PageCount: 1},
			sections:   fourSections,
			wantLayout: 60,
			wantFonts:  MaxFonts,
			check: func(t *testing.T, f types.LayoutFlags) {
				if f.ConsistentFormatting {
					t.Error("4 bullets and no dashes should not be consistent")
				}
			},
		},
		{
			name:       "decorative glyph",
			doc:        types.ExtractedDocument{RawText: "★ Led the team", PageCount: 1},
			sections:   fourSections,
			wantLayout: MaxLayout,
			wantFonts:  45,
		},
		{
			name:       "emoji",
			doc:        types.ExtractedDocument{RawText: "Shipped fast 🚀", PageCount: 1},
			sections:   fourSections,
			wantLayout: MaxLayout,
			wantFonts:  45,
		},
		{
			name: "non standard and too many fonts",
			doc: types.ExtractedDocument{
				RawText:   "x",
				PageCount: 1,
				FontsUsed: []string{"Arial", "Comic Sans MS", "Georgia", "Verdana"},
				FontSizes: []float64{11, 12},
			},
			sections:   fourSections,
			wantLayout: MaxLayout,
			wantFonts:  20,
		},
		{
			name: "standard fonts with odd sizes",
			doc: types.ExtractedDocument{
				RawText:   "x",
				PageCount: 2,
				FontsUsed: []string{"Times  New Roman", "CALIBRI"},
				FontSizes: []float64{8, 11},
			},
			sections:   fourSections,
			wantLayout: MaxLayout,
			wantFonts:  45,
			check: func(t *testing.T, f types.LayoutFlags) {
				if !f.UsesStandardFonts {
					t.Error("font names should be normalized before lookup")
				}
				if f.ProperFontSizing {
					t.Error("8pt text should fail sizing")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateLayout(&tt.doc, tt.sections)
			if got.Layout != tt.wantLayout {
				t.Errorf("layout = %d, want %d (flags %+v)", got.Layout, tt.wantLayout, got.Flags)
			}
			if got.Fonts != tt.wantFonts {
				t.Errorf("fonts = %d, want %d (flags %+v)", got.Fonts, tt.wantFonts, got.Flags)
			}
			if tt.check != nil {
				tt.check(t, got.Flags)
			}
		})
	}
}

func TestHasContactInfoRequiresEmailAndPhone(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"a@b.io 555-123-4567", true},
		{"Call (555) 123-4567 or mail me@example.org", true},
		{"a@b.io only", false},
		{"555-123-4567 only", false},
		{"nothing", false},
	}

	for _, tt := range tests {
		if got := HasContactInfo(extractor.ExtractContact(tt.text)); got != tt.want {
			t.Errorf("HasContactInfo(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestEvaluateContentJohnDoe(t *testing.T) {
	got := EvaluateContent(extractor.Extract(johnDoe))

	want := types.ContentFacts{
		HasProfessionalSummary: true,
		HasDetailedExperience:  true,
		HasRelevantSkills:      true,
		HasEducationInfo:       true,
		HasContactInfo:         true,
		KeywordDensity:         6,
	}
	if got.Facts != want {
		t.Errorf("facts = %+v, want %+v", got.Facts, want)
	}
	// 75 structural + 6*2 density
	if got.Content != 87 {
		t.Errorf("content = %d, want 87", got.Content)
	}
}

func TestEvaluateContentCapsDensity(t *testing.T) {
	text := "python java rust ruby php swift kotlin react angular vue docker kubernetes terraform aws"
	got := EvaluateContent(extractor.Extract(text))
	if got.Content != maxDensityPoints {
		t.Errorf("content = %d, want %d", got.Content, maxDensityPoints)
	}
}

func TestStrategiesJohnDoe(t *testing.T) {
	ex := extractor.Extract(johnDoe)
	doc := &types.ExtractedDocument{RawText: johnDoe, PageCount: 1}

	fallback := Fallback{}.Score(doc, ex)
	if fallback.Score != 90 {
		t.Errorf("fallback score = %d, want 90", fallback.Score)
	}
	if fallback.Score < 60 {
		t.Errorf("fallback score %d should be at least 60", fallback.Score)
	}
	switch fallback.Grade {
	case "A", "A+", "B", "B+":
	default:
		t.Errorf("unexpected fallback grade %s", fallback.Grade)
	}
	if fallback.Scheme != types.SchemeFallback {
		t.Errorf("scheme = %s, want %s", fallback.Scheme, types.SchemeFallback)
	}

	advanced := Advanced{}.Score(doc, ex)
	if advanced.Score != 100 || advanced.Grade != "A+" {
		t.Errorf("advanced = %d/%s, want 100/A+", advanced.Score, advanced.Grade)
	}
	if advanced.Breakdown.Total != advanced.Score {
		t.Errorf("breakdown total %d differs from score %d", advanced.Breakdown.Total, advanced.Score)
	}

	wantBreakdown := types.ScoreBreakdown{
		Layout: 75, Fonts: 55, Content: 87, Total: 100,
		LayoutPercent: 100, FontsPercent: 100, ContentPercent: 87,
	}
	if advanced.Breakdown != wantBreakdown {
		t.Errorf("breakdown = %+v, want %+v", advanced.Breakdown, wantBreakdown)
	}
	if fallback.Breakdown != wantBreakdown {
		t.Errorf("fallback breakdown = %+v, want %+v", fallback.Breakdown, wantBreakdown)
	}
}

func TestFallbackContentFreeResumeGradesD(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"filler", "lorem ipsum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &types.ExtractedDocument{RawText: tt.text, PageCount: 1}
			card := Fallback{}.Score(doc, extractor.Extract(tt.text))
			if card.Score != 0 || card.Grade != "D" {
				t.Errorf("fallback = %d/%s, want 0/D", card.Score, card.Grade)
			}
		})
	}
}

func TestTotalsNeverDecreaseWithMoreEvidence(t *testing.T) {
	base := "Jane\njane@x.com\nExperience\nDeveloper at Initech 2018 2020"
	richer := base + "\nSkills\ngo, python, docker, sql, kubernetes"

	doc := func(text string) *types.ExtractedDocument {
		return &types.ExtractedDocument{
			RawText:   text,
			PageCount: 3,
			HasTables: true,
			HasImages: true,
			FontsUsed: []string{"Comic Sans MS", "Papyrus", "Impact", "Wingdings"},
			FontSizes: []float64{20},
		}
	}

	for _, s := range []Strategy{Advanced{}, Fallback{}} {
		t.Run(s.Name(), func(t *testing.T) {
			before := s.Score(doc(base), extractor.Extract(base))
			after := s.Score(doc(richer), extractor.Extract(richer))
			if after.Score < before.Score {
				t.Errorf("score decreased from %d to %d", before.Score, after.Score)
			}
			if after.Score == before.Score {
				t.Errorf("adding a skills section should raise the score (stayed at %d)", before.Score)
			}
		})
	}
}

func TestStrategyByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", types.SchemeFallback, false},
		{"advanced", types.SchemeAdvanced, false},
		{" Fallback ", types.SchemeFallback, false},
		{"weighted", "", true},
	}

	for _, tt := range tests {
		s, err := StrategyByName(tt.name)
		if tt.wantErr {
			if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("StrategyByName(%q) error = %v, want %s", tt.name, err, errors.ErrCodeInvalidConfig)
			}
			continue
		}
		if err != nil {
			t.Fatalf("StrategyByName(%q) unexpected error: %v", tt.name, err)
		}
		if s.Name() != tt.want {
			t.Errorf("StrategyByName(%q) = %s, want %s", tt.name, s.Name(), tt.want)
		}
	}
}

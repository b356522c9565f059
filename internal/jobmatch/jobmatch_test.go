package jobmatch

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareJobScenario(t *testing.T) {
	job := "3 years of experience required. Skills: Python, SQL, Docker."
	resume := "Backend developer with 5 years of experience.\nSkills: python, sql"

	got := Compare(resume, job)

	assert.Equal(t, 100, got.ExperienceMatch)
	assert.Equal(t, 50, got.KeywordMatch)
	assert.Equal(t, 67, got.SkillsMatch)
	assert.Equal(t, 72, got.OverallMatch)
	assert.Greater(t, got.OverallMatch, 0)
	assert.Less(t, got.OverallMatch, 100)
	assert.Equal(t, []string{"python"}, got.MatchedKeywords)
	assert.Contains(t, got.MissingKeywords, "docker")
	assert.Equal(t, 3, got.RequiredYears)
	assert.Equal(t, 5, got.CandidateYears)
}

func TestExperienceMatch(t *testing.T) {
	tests := []struct {
		actual, required, want int
	}{
		{0, 0, 100},
		{7, 0, 100},
		{5, 3, 100},
		{3, 3, 100},
		{2, 3, 67},
		{0, 4, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.actual, tt.required), func(t *testing.T) {
			assert.Equal(t, tt.want, ExperienceMatch(tt.actual, tt.required))
		})
	}
}

func TestCompareWithoutRequirement(t *testing.T) {
	got := Compare("Junior developer", "We build things with kubernetes")
	assert.Equal(t, 100, got.ExperienceMatch)
	assert.Equal(t, 0, got.RequiredYears)
}

func TestCompareEmptyJobIsZeroNotNaN(t *testing.T) {
	got := Compare("python developer", "")
	assert.Equal(t, 0, got.KeywordMatch)
	assert.Equal(t, 0, got.SkillsMatch)
	assert.Equal(t, 100, got.ExperienceMatch)
	assert.Equal(t, 33, got.OverallMatch)
	assert.Empty(t, got.MissingKeywords)
	assert.NotNil(t, got.MissingKeywords)
}

func TestMissingKeywordsTruncatedInScanOrder(t *testing.T) {
	terms := []string{"javascript", "typescript", "python", "golang", "ruby", "swift", "kotlin",
		"scala", "react", "angular", "django", "flask", "spring"}
	job := "We need " + strings.Join(terms, " ")

	got := Compare("no overlap here", job)

	assert.Len(t, got.MissingKeywords, 10)
	assert.Equal(t, terms[:10], got.MissingKeywords)
	assert.Equal(t, 0, got.KeywordMatch)
}

func TestBidirectionalContainment(t *testing.T) {
	got := Compare("Built UIs with reactjs and postgresql", "Experience using react and mysql")
	assert.Contains(t, got.MatchedKeywords, "react")
	assert.Contains(t, got.MissingKeywords, "mysql")
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("Python, Docker & Kubernetes; python again. C++ and Go and CI/CD")
	assert.Equal(t, []string{"python", "docker", "kubernetes", "ci/cd"}, got)
}

func TestExtractSkills(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "colon list",
			text: "Skills: Python, SQL, Docker.",
			want: []string{"python", "sql", "docker"},
		},
		{
			name: "phrase with and",
			text: "Proficient in Go and Rust. Also likes chess.",
			want: []string{"go", "rust"},
		},
		{
			name: "mixed separators",
			text: "Technologies: AWS / GCP | Terraform; Ansible",
			want: []string{"aws", "gcp", "terraform", "ansible"},
		},
		{
			name: "overlong items dropped",
			text: "Familiar with an extremely long description that is certainly not a skill name, git",
			want: []string{"git"},
		},
		{
			name: "nothing",
			text: "Hard working person",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSkills(tt.text))
		})
	}
}

func TestParseYears(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"5+ years of experience", 5, true},
		{"10 yrs experience in backend", 10, true},
		{"2 years of professional experience", 2, true},
		{"Over 3 Years Experience", 3, true},
		{"experience: lots", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseYears(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

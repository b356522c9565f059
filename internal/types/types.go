package types

import "slices"

// Analysis modes
const (
	ModeGeneral     = "general"
	ModeJobSpecific = "job-specific"
)

// Scoring schemes recorded on every result
const (
	SchemeAdvanced = "advanced"
	SchemeFallback = "fallback"
)

// ExtractedDocument is the decoder's view of an uploaded resume
type ExtractedDocument struct {
	RawText    string    `json:"rawText"`
	PageCount  int       `json:"pageCount"`
	FontsUsed  []string  `json:"fontsUsed"`
	FontSizes  []float64 `json:"fontSizes,omitempty"` // points, empty when unknown
	HasTables  bool      `json:"hasTables"`
	HasImages  bool      `json:"hasImages"`
	SourcePath string    `json:"-"`
}

// SectionMap records which canonical resume sections were detected
type SectionMap struct {
	Summary        bool `json:"summary"`
	Experience     bool `json:"experience"`
	Education      bool `json:"education"`
	Skills         bool `json:"skills"`
	Projects       bool `json:"projects"`
	Certifications bool `json:"certifications"`
}

// Present returns how many canonical sections are present
func (s SectionMap) Present() int {
	n := 0
	for _, ok := range []bool{s.Summary, s.Experience, s.Education, s.Skills, s.Projects, s.Certifications} {
		if ok {
			n++
		}
	}
	return n
}

// Names returns the names of present sections in canonical order
func (s SectionMap) Names() []string {
	all := []struct {
		name string
		ok   bool
	}{
		{"summary", s.Summary},
		{"experience", s.Experience},
		{"education", s.Education},
		{"skills", s.Skills},
		{"projects", s.Projects},
		{"certifications", s.Certifications},
	}
	names := make([]string, 0, len(all))
	for _, sec := range all {
		if sec.ok {
			names = append(names, sec.name)
		}
	}
	return names
}

// ContactInfo holds the first match per contact field; "" means not found
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

func (c ContactInfo) HasEmail() bool    { return c.Email != "" }
func (c ContactInfo) HasPhone() bool    { return c.Phone != "" }
func (c ContactInfo) HasLinkedIn() bool { return c.LinkedIn != "" }

// KeywordBundle maps keyword categories to matched terms in first-seen order
type KeywordBundle struct {
	Technical  []string `json:"technical"`
	Soft       []string `json:"soft"`
	Action     []string `json:"action"`
	Education  []string `json:"education"`
	Experience []string `json:"experience"`
}

// ExperienceEntry is a coarse work history entry
type ExperienceEntry struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Duration     string `json:"duration"`
	Description  string `json:"description"`
}

// EducationEntry is a coarse education entry
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// ScoreBreakdown carries per-axis scores and their normalized percentages
type ScoreBreakdown struct {
	Layout         int `json:"layout"`  // 0-75
	Fonts          int `json:"fonts"`   // 0-55
	Content        int `json:"content"` // 0-100
	Total          int `json:"total"`   // 0-100
	LayoutPercent  int `json:"layoutPercent"`
	FontsPercent   int `json:"fontsPercent"`
	ContentPercent int `json:"contentPercent"`
}

// LayoutFlags are the boolean facts behind the layout and font axes
type LayoutFlags struct {
	HasProperHeaders     bool `json:"hasProperHeaders"`
	ConsistentFormatting bool `json:"consistentFormatting"`
	NoTables             bool `json:"noTables"`
	NoGraphics           bool `json:"noGraphics"`
	StandardFormat       bool `json:"standardFormat"`
	AppropriateLength    bool `json:"appropriateLength"`
	UsesStandardFonts    bool `json:"usesStandardFonts"`
	ConsistentFonts      bool `json:"consistentFonts"`
	ProperFontSizing     bool `json:"properFontSizing"`
	NoFancyFormatting    bool `json:"noFancyFormatting"`
}

// ContentFacts are the boolean facts behind the content axis
type ContentFacts struct {
	HasProfessionalSummary bool `json:"hasProfessionalSummary"`
	HasDetailedExperience  bool `json:"hasDetailedExperience"`
	HasRelevantSkills      bool `json:"hasRelevantSkills"`
	HasEducationInfo       bool `json:"hasEducationInfo"`
	HasContactInfo         bool `json:"hasContactInfo"`
	KeywordDensity         int  `json:"keywordDensity"`
}

// JobMatchResult compares a resume against a job description
type JobMatchResult struct {
	KeywordMatch    int      `json:"keywordMatch"`
	SkillsMatch     int      `json:"skillsMatch"`
	ExperienceMatch int      `json:"experienceMatch"`
	OverallMatch    int      `json:"overallMatch"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	RequiredYears   int      `json:"requiredYears"`
	CandidateYears  int      `json:"candidateYears"`
}

// AnalysisResult is the public output of one analysis
type AnalysisResult struct {
	Sections        SectionMap        `json:"sections"`
	ContactInfo     ContactInfo       `json:"contactInfo"`
	Keywords        KeywordBundle     `json:"keywords"`
	Experience      []ExperienceEntry `json:"experience"`
	Education       []EducationEntry  `json:"education"`
	Skills          []string          `json:"skills"`
	Breakdown       ScoreBreakdown    `json:"breakdown"`
	Layout          LayoutFlags       `json:"layout"`
	Content         ContentFacts      `json:"content"`
	Score           int               `json:"score"`
	Grade           string            `json:"grade"`
	ScoringScheme   string            `json:"scoringScheme"`
	Feedback        []string          `json:"feedback"`
	Strengths       []string          `json:"strengths"`
	Weaknesses      []string          `json:"weaknesses"`
	Recommendations []string          `json:"recommendations"`
	JobMatch        *JobMatchResult   `json:"jobMatch,omitempty"`
	AIEnhanced      bool              `json:"aiEnhanced"`
	AISummary       string            `json:"aiSummary,omitempty"`
}

// Clone returns a deep copy of the result so cached values are never aliased
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Keywords = KeywordBundle{
		Technical:  slices.Clone(r.Keywords.Technical),
		Soft:       slices.Clone(r.Keywords.Soft),
		Action:     slices.Clone(r.Keywords.Action),
		Education:  slices.Clone(r.Keywords.Education),
		Experience: slices.Clone(r.Keywords.Experience),
	}
	out.Experience = slices.Clone(r.Experience)
	out.Education = slices.Clone(r.Education)
	out.Skills = slices.Clone(r.Skills)
	out.Feedback = slices.Clone(r.Feedback)
	out.Strengths = slices.Clone(r.Strengths)
	out.Weaknesses = slices.Clone(r.Weaknesses)
	out.Recommendations = slices.Clone(r.Recommendations)
	if r.JobMatch != nil {
		jm := *r.JobMatch
		jm.MatchedKeywords = slices.Clone(r.JobMatch.MatchedKeywords)
		jm.MissingKeywords = slices.Clone(r.JobMatch.MissingKeywords)
		out.JobMatch = &jm
	}
	return &out
}

// AnalysisRequest is what the orchestration layer hands to the analyzer
type AnalysisRequest struct {
	FilePath       string `json:"filePath" validate:"required"`
	Mode           string `json:"mode" validate:"required,oneof=general job-specific"`
	JobDescription string `json:"jobDescription,omitempty" validate:"required_if=Mode job-specific"`
}

// AnalysisResponse wraps a result with request metadata. On total failure
// only Success and Error are set.
type AnalysisResponse struct {
	Success      bool   `json:"success"`
	AnalysisMode string `json:"analysisMode,omitempty"`
	RequestID    string `json:"requestId,omitempty"`
	Cached       bool   `json:"cached"`
	Error        string `json:"error,omitempty"`
	*AnalysisResult
}

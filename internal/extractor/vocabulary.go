package extractor

// Section is a canonical resume section name
type Section string

const (
	SectionSummary        Section = "summary"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

// CanonicalSections lists the sections in reporting order
var CanonicalSections = []Section{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
}

// sectionSynonyms drive presence detection. Any occurrence anywhere in the
// text counts; there is no positional constraint.
var sectionSynonyms = map[Section][]string{
	SectionSummary:        {"summary", "objective", "profile", "about"},
	SectionExperience:     {"experience", "employment", "work history"},
	SectionEducation:      {"education", "academic", "degree", "university"},
	SectionSkills:         {"skills", "competencies", "technologies", "expertise"},
	SectionProjects:       {"projects", "portfolio"},
	SectionCertifications: {"certification", "certificate", "licenses"},
}

// headerPhrases are the exact (normalized) lines treated as section headers
// by the entry scanner.
var headerPhrases = map[string]Section{
	"summary":                      SectionSummary,
	"professional summary":         SectionSummary,
	"career summary":               SectionSummary,
	"objective":                    SectionSummary,
	"career objective":             SectionSummary,
	"profile":                      SectionSummary,
	"professional profile":         SectionSummary,
	"about":                        SectionSummary,
	"about me":                     SectionSummary,
	"experience":                   SectionExperience,
	"work experience":              SectionExperience,
	"professional experience":      SectionExperience,
	"employment":                   SectionExperience,
	"employment history":           SectionExperience,
	"work history":                 SectionExperience,
	"career history":               SectionExperience,
	"education":                    SectionEducation,
	"education and training":       SectionEducation,
	"academic background":          SectionEducation,
	"academics":                    SectionEducation,
	"skills":                       SectionSkills,
	"technical skills":             SectionSkills,
	"key skills":                   SectionSkills,
	"core competencies":            SectionSkills,
	"competencies":                 SectionSkills,
	"technologies":                 SectionSkills,
	"expertise":                    SectionSkills,
	"projects":                     SectionProjects,
	"personal projects":            SectionProjects,
	"portfolio":                    SectionProjects,
	"certifications":               SectionCertifications,
	"certificates":                 SectionCertifications,
	"licenses":                     SectionCertifications,
	"licenses and certifications":  SectionCertifications,
	"certifications and licenses":  SectionCertifications,
}

// TechnicalTerms is the fixed technical vocabulary shared by keyword
// extraction, content density and job matching. Order is reporting order.
var TechnicalTerms = []string{
	"javascript", "typescript", "python", "java", "golang", "rust", "ruby",
	"php", "swift", "kotlin", "scala", "c++", "c#",
	"react", "angular", "vue", "node", "express", "django", "flask", "spring",
	"html", "css", "sql", "mysql", "postgresql", "mongodb", "redis", "graphql",
	"docker", "kubernetes", "terraform", "jenkins", "aws", "azure", "gcp",
	"linux", "git", "machine learning", "tensorflow", "pytorch", "pandas",
	"spark", "kafka", "microservices", "rest api", "ci/cd", "agile",
}

// SoftTerms lists soft skills
var SoftTerms = []string{
	"leadership", "communication", "teamwork", "problem solving",
	"problem-solving", "collaboration", "adaptability", "time management",
	"critical thinking", "creativity", "mentoring",
}

// ActionTerms lists action verbs
var ActionTerms = []string{
	"developed", "managed", "led", "created", "designed", "implemented",
	"built", "improved", "increased", "reduced", "launched", "delivered",
	"optimized", "achieved", "coordinated", "established", "automated",
	"migrated", "mentored", "streamlined",
}

// EducationTerms lists education keywords
var EducationTerms = []string{
	"bachelor", "master", "phd", "doctorate", "degree", "university",
	"college", "diploma", "gpa", "mba",
}

// ExperienceTerms lists seniority and role keywords
var ExperienceTerms = []string{
	"years", "senior", "junior", "lead", "manager", "intern", "engineer",
	"developer", "analyst", "consultant", "architect", "director",
}

// bulletGlyphs start description lines
var bulletGlyphs = []string{"-", "•", "*", "▪", "◦", "–", "·"}

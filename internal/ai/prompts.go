package ai

// Prompt template tokens. Each is replaced once; text substituted into a
// token is never expanded again.
const (
	TokenResume         = "{{resume}}"
	TokenJobDescription = "{{jobDescription}}"
	TokenFacts          = "{{facts}}"
	TokenSchema         = "{{schema}}"
)

// DefaultSystemPrompt is used when neither a prompt file nor config text is set
const DefaultSystemPrompt = `You are an applicant tracking system (ATS) analyst with a strict commitment to honesty and accuracy. Your core principles are:

- Judge only what is present in the resume text; never invent skills, employers or dates
- Base scores on ATS parseability, content completeness and, when given, fit to the job description
- Keep feedback short, concrete and actionable
- Reply with a single JSON object and nothing else`

// DefaultUserPrompt is the default analysis prompt template
const DefaultUserPrompt = `Please analyze the resume below for ATS compatibility.

**Tasks:**

1. **Score**: Give an overall ATS compatibility score from 0 to 100 and a grade (A+, A, B+, B, C+, C or D).
2. **Feedback**: List the most important fixes, one sentence each.
3. **Strengths and weaknesses**: List what already works and what holds the resume back.
4. **Recommendations**: List concrete next steps. When a job description is given, focus on fit to that role.

The heuristic analysis below was computed by a deterministic parser. Use it as a cross-check, not as the answer.

**Heuristic facts:**
-----
{{facts}}
-----

**Resume:**
-----
{{resume}}
-----

**Job Description:**
-----
{{jobDescription}}
-----

Reply with one JSON object matching this JSON Schema exactly:
{{schema}}`

// resolvePrompt selects a prompt in priority order: file, config, default
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

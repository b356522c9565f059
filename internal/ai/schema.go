package ai

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ReplySchema is the JSON Schema the model reply must satisfy. It is also
// embedded verbatim in the prompt.
const ReplySchema = `{
  "type": "object",
  "properties": {
    "score": {"type": "integer", "minimum": 0, "maximum": 100},
    "grade": {"type": "string", "enum": ["A+", "A", "B+", "B", "C+", "C", "D"]},
    "summary": {"type": "string"},
    "feedback": {"type": "array", "items": {"type": "string"}},
    "strengths": {"type": "array", "items": {"type": "string"}},
    "weaknesses": {"type": "array", "items": {"type": "string"}},
    "recommendations": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["score", "grade", "feedback"]
}`

// Analysis is the parsed model reply
type Analysis struct {
	Score           int      `json:"score"`
	Grade           string   `json:"grade"`
	Summary         string   `json:"summary,omitempty"`
	Feedback        []string `json:"feedback"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(ReplySchema))
})

// validateReply checks a JSON document against ReplySchema
func validateReply(doc string) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile reply schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("reply does not match schema: %s", strings.Join(msgs, "; "))
}

package profile

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// candidateProfileSchema is the strict JSON Schema for well-behaved model
// output. Validation against it is advisory: failures are logged by the
// caller while the lenient normalizer still decides the outcome.
const candidateProfileSchema = `{
  "type": "object",
  "properties": {
    "full_name": {"type": ["string", "null"]},
    "email": {"type": ["string", "null"]},
    "phone": {"type": ["string", "null"]},
    "location": {"type": ["string", "null"]},
    "skills": {"type": "array", "items": {"type": "string"}},
    "experience": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": ["string", "null"]},
          "company": {"type": ["string", "null"]},
          "duration": {"type": ["string", "null"]},
          "description": {"type": ["string", "null"]}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "degree": {"type": ["string", "null"]},
          "institution": {"type": ["string", "null"]},
          "year": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

// ValidateShape checks a JSON payload against the strict profile schema and
// returns a descriptive error listing each violation.
func ValidateShape(payload string) error {
	schemaLoader := gojsonschema.NewStringLoader(candidateProfileSchema)
	documentLoader := gojsonschema.NewStringLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msg := "model output violates profile schema:"
	for _, desc := range result.Errors() {
		msg += fmt.Sprintf(" %s: %s;", desc.Field(), desc.Description())
	}
	return fmt.Errorf("%s", msg)
}

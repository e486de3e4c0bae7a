package llm

import "strings"

// profileSchemaContract is the exact output contract stated in every
// extraction prompt. Field names match the persisted profile shape; the model
// is told to use null rather than invent values.
const profileSchemaContract = `{
  "full_name": "string or null",
  "email": "string or null",
  "phone": "string or null",
  "location": "string or null",
  "skills": ["string"],
  "experience": [{"title": "string or null", "company": "string or null", "duration": "string or null", "description": "string or null"}],
  "education": [{"degree": "string or null", "institution": "string or null", "year": "string or null"}]
}`

// BuildExtractionPrompt produces the single-turn instruction sent to the
// completion service. It is deterministic given the input text: the schema
// contract is fixed and the candidate text is embedded verbatim.
func BuildExtractionPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are a resume parser. Extract structured information from the resume text below.\n\n")
	b.WriteString("Return ONLY a JSON object with exactly this shape, no prose and no markdown:\n")
	b.WriteString(profileSchemaContract)
	b.WriteString("\n\nUse null for any field that is not present in the resume. ")
	b.WriteString("Keep 'duration' as the label written in the resume (e.g. \"2019 - 2022\"). ")
	b.WriteString("Do not invent information.\n\nResume text:\n\"\"\"\n")
	b.WriteString(text)
	b.WriteString("\n\"\"\"")
	return b.String()
}

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPromptEmbedsText(t *testing.T) {
	text := "Jane Doe, jane@x.com, 5 years React"
	prompt := BuildExtractionPrompt(text)

	assert.Contains(t, prompt, text, "candidate text must be embedded verbatim")
}

func TestBuildExtractionPromptStatesSchema(t *testing.T) {
	prompt := BuildExtractionPrompt("some resume text")

	for _, field := range []string{
		`"full_name"`, `"email"`, `"phone"`, `"location"`,
		`"skills"`, `"experience"`, `"education"`,
		`"title"`, `"company"`, `"duration"`, `"description"`,
		`"degree"`, `"institution"`, `"year"`,
	} {
		assert.Contains(t, prompt, field, "schema contract must name %s", field)
	}
}

func TestBuildExtractionPromptDeterministic(t *testing.T) {
	a := BuildExtractionPrompt("text")
	b := BuildExtractionPrompt("text")
	assert.Equal(t, a, b)
}

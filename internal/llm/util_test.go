package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Fenced with language tag",
			input:    "```json\n{\"full_name\": \"Jane\"}\n```",
			expected: `{"full_name": "Jane"}`,
		},
		{
			name:     "Fenced without language tag",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "Fenced with uppercase language tag",
			input:    "```JSON\n{\"full_name\": \"Jane Doe\"}\n```",
			expected: `{"full_name": "Jane Doe"}`,
		},
		{
			name:     "Fenced with other language tag",
			input:    "```javascript\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "Fence opening directly on JSON",
			input:    "```{\"a\": 1}```",
			expected: `{"a": 1}`,
		},
		{
			name:     "Bare JSON untouched",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "Leading and trailing prose",
			input:    "Here is the extracted profile:\n{\"a\": 1}\nLet me know if you need more.",
			expected: `{"a": 1}`,
		},
		{
			name:     "Nested braces with prose",
			input:    `Sure! {"a": {"b": 2}} hope that helps`,
			expected: `{"a": {"b": 2}}`,
		},
		{
			name:     "Surrounding whitespace",
			input:    "  \n {\"a\": 1} \n ",
			expected: `{"a": 1}`,
		},
		{
			name:     "No JSON at all",
			input:    "I could not parse this resume.",
			expected: "I could not parse this resume.",
		},
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

package profile

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-parser/internal/llm"
)

// Normalize parses the raw text returned by the completion service into a
// validated CandidateProfile.
//
// The model output is never trusted: every field access is defensively
// checked. Missing or mistyped scalars become nil, missing or mistyped lists
// become empty, and the truncation limits are applied throughout. The only
// failure mode is MalformedOutputError, raised when no JSON object can be
// parsed at all.
func Normalize(raw string) (*CandidateProfile, error) {
	payload := llm.CleanJSONBlock(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, &MalformedOutputError{Snippet: snippet(payload), Err: err}
	}
	if fields == nil {
		return nil, &MalformedOutputError{Snippet: snippet(payload)}
	}

	p := &CandidateProfile{
		FullName:   stringField(fields, "full_name"),
		Email:      stringField(fields, "email"),
		Phone:      stringField(fields, "phone"),
		Location:   stringField(fields, "location"),
		Skills:     stringList(fields["skills"]),
		Experience: experienceList(fields["experience"]),
		Education:  educationList(fields["education"]),
	}
	if rt := stringField(fields, "raw_text"); rt != nil {
		p.RawText = truncate(*rt, MaxRawTextLength)
	}
	return p, nil
}

// stringField returns the named field as a bounded string pointer, or nil if
// it is absent, empty, or not a string.
func stringField(fields map[string]any, key string) *string {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(truncate(s, MaxFieldLength))
	if s == "" {
		return nil
	}
	return &s
}

// itemField is stringField for the sub-objects inside list entries.
func itemField(item map[string]any, key string) *string {
	return stringField(item, key)
}

// stringList coerces a model value into a bounded list of strings.
// Anything that is not an array yields an empty list.
func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(truncate(s, MaxFieldLength))
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxListItems {
			break
		}
	}
	return out
}

// experienceList coerces a model value into bounded experience entries.
func experienceList(v any) []ExperienceEntry {
	arr, ok := v.([]any)
	if !ok {
		return []ExperienceEntry{}
	}

	out := make([]ExperienceEntry, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, ExperienceEntry{
			Title:       itemField(m, "title"),
			Company:     itemField(m, "company"),
			Duration:    itemField(m, "duration"),
			Description: itemField(m, "description"),
		})
		if len(out) == MaxListItems {
			break
		}
	}
	return out
}

// educationList coerces a model value into bounded education entries.
func educationList(v any) []EducationEntry {
	arr, ok := v.([]any)
	if !ok {
		return []EducationEntry{}
	}

	out := make([]EducationEntry, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, EducationEntry{
			Degree:      itemField(m, "degree"),
			Institution: itemField(m, "institution"),
			Year:        itemField(m, "year"),
		})
		if len(out) == MaxListItems {
			break
		}
	}
	return out
}

// truncate bounds a string to max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

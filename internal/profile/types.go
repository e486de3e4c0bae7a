// Package profile defines the extracted candidate profile and the normalizer
// that turns untrusted model output into one.
package profile

// Storage limits applied before persistence. Every scalar is truncated to
// MaxFieldLength runes and every list to MaxListItems entries; raw text is
// bounded separately since it carries the whole extracted document.
const (
	MaxFieldLength   = 500
	MaxListItems     = 50
	MaxRawTextLength = 8000
)

// CandidateProfile is the structured extraction derived from one uploaded
// document. Scalar fields are pointers: absent or invalid model values are
// stored as null rather than rejected.
type CandidateProfile struct {
	FullName   *string           `json:"full_name"`
	Email      *string           `json:"email"`
	Phone      *string           `json:"phone"`
	Location   *string           `json:"location"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	RawText    string            `json:"raw_text"`
}

// ExperienceEntry is one work-history record. All fields are optional.
type ExperienceEntry struct {
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Duration    *string `json:"duration"`
	Description *string `json:"description"`
}

// EducationEntry is one education record. All fields are optional.
type EducationEntry struct {
	Degree      *string `json:"degree"`
	Institution *string `json:"institution"`
	Year        *string `json:"year"`
}

// Empty returns a profile with no structured fields, used when extraction is
// skipped or the model output cannot be used. List fields are non-nil so the
// persisted JSON carries empty arrays instead of nulls.
func Empty(rawText string) *CandidateProfile {
	return &CandidateProfile{
		Skills:     []string{},
		Experience: []ExperienceEntry{},
		Education:  []EducationEntry{},
		RawText:    truncate(rawText, MaxRawTextLength),
	}
}

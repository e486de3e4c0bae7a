// Package extract converts uploaded resume files into bounded plain text.
//
// Extraction is best-effort by contract: every strategy degrades to an empty
// string instead of returning an error, so the ingestion pipeline never fails
// because a file was unreadable.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTextLength is the hard cap, in runes, applied to extracted text before it
// is handed to the prompt builder. It bounds prompt cost and completion latency.
const MaxTextLength = 8000

// fileFormat identifies the extraction strategy for an upload.
type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatPDF
	formatHTML
	formatText
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// Extractor produces plain text from raw file contents.
type Extractor struct {
	maxLength int
}

// New returns an Extractor with the default text cap.
func New() *Extractor {
	return &Extractor{maxLength: MaxTextLength}
}

// NewWithLimit returns an Extractor with a custom text cap, used by tests and
// callers that need tighter prompt budgets.
func NewWithLimit(maxLength int) *Extractor {
	if maxLength <= 0 {
		maxLength = MaxTextLength
	}
	return &Extractor{maxLength: maxLength}
}

// Extract returns best-effort plain text for the given file contents.
// The filename extension is preferred over the declared MIME type because
// browsers frequently send generic application/octet-stream.
// Extract never fails; inputs with no usable text yield an empty string.
func (e *Extractor) Extract(data []byte, filename, mimeType string) string {
	var text string

	switch detectFormat(filename, mimeType) {
	case formatPDF:
		text = extractPDFText(data)
	case formatHTML:
		text = extractHTMLText(data)
	case formatText:
		text = decodeText(data)
	default:
		// Legacy word-processor formats, RTF, ODT and friends: a raw decode
		// recovers whatever readable runs the container happens to hold.
		text = decodeText(data)
	}

	return e.normalize(text)
}

// detectFormat selects the extraction strategy from the filename extension,
// falling back to the declared MIME type.
func detectFormat(filename, mimeType string) fileFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return formatPDF
	case ".html", ".htm":
		return formatHTML
	case ".txt", ".md", ".text":
		return formatText
	}

	switch {
	case strings.Contains(mimeType, "pdf"):
		return formatPDF
	case strings.Contains(mimeType, "html"):
		return formatHTML
	case strings.HasPrefix(mimeType, "text/"):
		return formatText
	}
	return formatUnknown
}

// decodeText interprets raw bytes as UTF-8, dropping invalid sequences.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var sb strings.Builder
	sb.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r != utf8.RuneError || size > 1 {
			sb.WriteRune(r)
		}
		data = data[size:]
	}
	return sb.String()
}

// normalize applies the uniform post-processing invariant: collapse whitespace
// runs to single spaces, trim, and truncate to the configured cap.
func (e *Extractor) normalize(text string) string {
	text = whitespaceRE.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > e.maxLength {
		text = string(runes[:e.maxLength])
	}
	return text
}

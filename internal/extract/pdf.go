package extract

import (
	"bytes"
	"strings"
	"unicode"
)

// minLiteralLength filters out the short parenthesized runs that PDF content
// streams use for kerning adjustments and operator arguments.
const minLiteralLength = 3

var (
	streamMarker    = []byte("stream")
	endstreamMarker = []byte("endstream")
)

// extractPDFText scrapes readable text out of a raw PDF byte stream.
//
// This is a heuristic, not a PDF content-stream decoder. It scans for
// stream…endstream segments and collects the parenthesized literal strings
// used by Tj/TJ show-text operators, unescaping common backslash sequences.
// Text encoded with glyph-index fonts, FlateDecode-compressed streams, or
// hex-string operators is not recovered; callers must tolerate an empty
// result.
func extractPDFText(data []byte) string {
	var parts []string

	for len(data) > 0 {
		start := bytes.Index(data, streamMarker)
		if start < 0 {
			break
		}
		rest := data[start+len(streamMarker):]
		end := bytes.Index(rest, endstreamMarker)
		if end < 0 {
			break
		}

		for _, lit := range parenthesizedLiterals(rest[:end]) {
			if usableLiteral(lit) {
				parts = append(parts, lit)
			}
		}
		data = rest[end+len(endstreamMarker):]
	}

	return strings.Join(parts, " ")
}

// parenthesizedLiterals returns the unescaped contents of every balanced
// (...) literal in a content-stream segment.
func parenthesizedLiterals(segment []byte) []string {
	var (
		literals []string
		sb       strings.Builder
		depth    int
	)

	for i := 0; i < len(segment); i++ {
		c := segment[i]
		switch {
		case c == '\\' && depth > 0 && i+1 < len(segment):
			i++
			sb.WriteByte(unescapePDF(segment[i]))
		case c == '(':
			depth++
			if depth > 1 {
				sb.WriteByte(c)
			}
		case c == ')':
			if depth == 0 {
				continue
			}
			depth--
			if depth > 0 {
				sb.WriteByte(c)
			} else {
				literals = append(literals, sb.String())
				sb.Reset()
			}
		case depth > 0:
			sb.WriteByte(c)
		}
	}
	return literals
}

// unescapePDF maps the common PDF string escapes to their byte values.
// Unrecognized escapes keep the escaped character, per the PDF string rules.
func unescapePDF(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	default:
		return c
	}
}

// usableLiteral reports whether a literal run looks like prose rather than
// coordinate or operator noise.
func usableLiteral(lit string) bool {
	if len(lit) < minLiteralLength {
		return false
	}
	for _, r := range lit {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

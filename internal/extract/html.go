package extract

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
)

// extractHTMLText strips markup from an HTML resume export and returns its
// visible text. Script and style bodies are removed first so inline code does
// not leak into the candidate text. Parse failures yield an empty string.
func extractHTMLText(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()

	if body := doc.Find("body"); body.Length() > 0 {
		return body.Text()
	}
	return doc.Text()
}

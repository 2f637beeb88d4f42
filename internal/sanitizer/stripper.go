package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans free text before it is stored.
type Sanitizer interface {
	StripHTML(s string) string
	CleanText(s string) string
}

type HTMLStripper struct {
	bm *bluemonday.Policy
}

var _ Sanitizer = (*HTMLStripper)(nil)

// NewHTMLStripper return a new instance of blue monday policy
func NewHTMLStripper() *HTMLStripper {
	return &HTMLStripper{
		bm: bluemonday.StrictPolicy(),
	}
}

// StripHTML removes every tag. Entities produced by the policy are left escaped.
func (hs *HTMLStripper) StripHTML(s string) string {
	return hs.bm.Sanitize(s)
}

// CleanText strips tags, unescapes entities and collapses runs of whitespace,
// so "Shoes &amp; <b>Bags</b>" becomes "Shoes & Bags".
func (hs *HTMLStripper) CleanText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(hs.bm.Sanitize(s))), " ")
}

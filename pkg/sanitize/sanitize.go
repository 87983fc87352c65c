package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()

	// Block boundaries become spaces so adjacent paragraphs don't merge into one word.
	blockBreaks = strings.NewReplacer("</p>", " ", "<br>", " ", "<br/>", " ", "<br />", " ", "</div>", " ", "</li>", " ")
)

// Content cleans rich-text post HTML down to the user generated content allowlist.
func Content(raw string) string {
	return strings.TrimSpace(ugc.Sanitize(raw))
}

// PlainText strips all markup. Used for search documents and emptiness checks.
func PlainText(raw string) string {
	text := html.UnescapeString(strict.Sanitize(blockBreaks.Replace(raw)))
	return strings.Join(strings.Fields(text), " ")
}

// IsBlank reports whether the content has no visible text once markup is removed.
func IsBlank(raw string) bool {
	return PlainText(raw) == ""
}

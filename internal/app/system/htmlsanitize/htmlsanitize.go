// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize wraps the bluemonday policies used for
// user-supplied text. Sanitize keeps a safe rich-text subset for
// descriptions and comments; Strip reduces input to plain text for
// titles and names.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = buildUGC()
	strict = bluemonday.StrictPolicy()
)

func buildUGC() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowTables()
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// Sanitize removes unsafe HTML while keeping the usual formatting
// subset (links, emphasis, lists, tables).
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Strip removes all HTML, leaving trimmed plain text.
func Strip(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

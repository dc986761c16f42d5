// internal/app/system/htmlsanitize/htmlsanitize.go
// Package htmlsanitize cleans teacher-authored rich text (post messages,
// assignment descriptions) before it is stored.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

func get() *bluemonday.Policy {
	once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td")
		p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("th", "td")
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers, unsafe URLs and disallowed
// elements, keeping ordinary formatting.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return get().Sanitize(s)
}

// IsPlainText reports whether s has no tag-like content.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainTextToHTML escapes s and wraps it in a paragraph, turning newlines
// into <br>.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// Prepare returns stored-safe HTML for either plain or rich input.
func Prepare(s string) string {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return PlainTextToHTML(s)
	}
	return Sanitize(s)
}

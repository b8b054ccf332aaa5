// Package sanitizer cleans user-supplied HTML before it is rendered in UI pages.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy   *bluemonday.Policy
	markdownPolicy *bluemonday.Policy
	initOnce       sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		// Covers everything goldmark emits for CommonMark input.
		markdownPolicy = bluemonday.NewPolicy()
		markdownPolicy.AllowStandardURLs()
		markdownPolicy.AllowElements(
			"p", "br", "hr",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		markdownPolicy.AllowAttrs("href", "title").OnElements("a")
		markdownPolicy.AllowAttrs("src", "alt", "title").OnElements("img")
		markdownPolicy.AllowAttrs("start").Matching(bluemonday.Integer).OnElements("ol")
		markdownPolicy.RequireNoFollowOnLinks(true)
	})
}

// StripHTML removes all markup and returns plain text.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// SanitizeMarkdownHTML keeps the formatting produced by a Markdown renderer
// and drops scripts, event handlers and javascript: URLs.
func SanitizeMarkdownHTML(s string) string {
	initPolicies()
	return markdownPolicy.Sanitize(s)
}

// SanitizeHTMLCustom applies a custom bluemonday policy.
// Returns input unchanged if policy is nil.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}

// Package posturl turns free-form user input into canonical Instagram post URLs
// and extracts the shortcode a post URL identifies.
package posturl

import (
	"regexp"
	"strings"
)

// Canonical post URLs always take this form: https://instagram.com/<kind>/<shortcode>
const canonicalHost = "https://instagram.com"

var (
	postPattern = regexp.MustCompile(`^(?i:https?://(?:www\.)?instagram\.com)/(p|reel|tv|reels)/([^/?#\s]+)/?$`)
	separators  = regexp.MustCompile(`[\n,]`)
)

// Normalize splits raw text on commas and newlines and returns the distinct
// canonical post URLs it contains, in first-seen order. Anything that is not
// a post link is dropped.
func Normalize(raw string) []string {
	seen := make(map[string]bool)
	urls := []string{}

	for _, candidate := range separators.Split(raw, -1) {
		canonical, ok := Canonical(candidate)
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		urls = append(urls, canonical)
	}

	return urls
}

// Canonical reduces a single candidate to its canonical form.
func Canonical(candidate string) (string, bool) {
	candidate = stripQuery(strings.TrimSpace(candidate))
	if candidate == "" {
		return "", false
	}

	m := postPattern.FindStringSubmatch(candidate)
	if m == nil {
		return "", false
	}
	return canonicalHost + "/" + m[1] + "/" + m[2], true
}

// Shortcode returns the post identifier captured from url.
func Shortcode(url string) (string, bool) {
	m := postPattern.FindStringSubmatch(stripQuery(strings.TrimSpace(url)))
	if m == nil {
		return "", false
	}
	return m[2], true
}

// Kind reports the link kind (p, reel, reels or tv), or "" for non-post URLs.
func Kind(url string) string {
	m := postPattern.FindStringSubmatch(stripQuery(strings.TrimSpace(url)))
	if m == nil {
		return ""
	}
	return m[1]
}

func stripQuery(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

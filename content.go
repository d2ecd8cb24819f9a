package parsekit

import (
	"net/url"
	"regexp"
	"strings"
)

// ContentExtractor is the HTML toolkit shared by strategies. Every method is
// a pure function of its input: no network access, and malformed markup
// yields a best-effort result instead of an error.
type ContentExtractor interface {
	// CleanHTML removes configured tags (script, style, ...) and
	// event-handler attributes, and collapses redundant whitespace.
	CleanHTML(html string) string

	// ExtractImages returns image URLs in harvesting order, resolved
	// against baseURL. Duplicates are kept.
	ExtractImages(html, baseURL string) []string

	// ExtractText returns the visible text of html with whitespace
	// normalized to single spaces.
	ExtractText(html string) string

	// ExtractMetaTags maps meta property/name attributes to their content.
	ExtractMetaTags(html string) map[string]string

	// ResolveLinks rewrites relative src and href attributes to absolute URLs.
	ResolveLinks(html, baseURL string) string

	// NormalizeEncoding returns content as valid UTF-8, decoding legacy
	// single-byte encodings when needed.
	NormalizeEncoding(content []byte) string
}

var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)

// ResolveURL resolves candidate against baseURL.
//
// Absolute URLs pass through. Protocol-relative URLs adopt the base scheme,
// root-relative URLs the base origin. Each leading "../" walks one segment up
// the base directory; anything else is appended to the base directory (the
// base path without its trailing file name).
func ResolveURL(candidate, baseURL string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || schemePrefix.MatchString(candidate) {
		return candidate
	}
	if strings.HasPrefix(strings.ToLower(candidate), "data:") {
		return candidate
	}

	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return candidate
	}

	if strings.HasPrefix(candidate, "//") {
		return base.Scheme + ":" + candidate
	}

	origin := base.Scheme + "://" + base.Host
	if strings.HasPrefix(candidate, "/") {
		return origin + candidate
	}

	dir := base.Path
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		dir = dir[:i]
	} else {
		dir = ""
	}

	for {
		switch {
		case strings.HasPrefix(candidate, "../"):
			candidate = candidate[3:]
			if i := strings.LastIndex(dir, "/"); i >= 0 {
				dir = dir[:i]
			}
		case strings.HasPrefix(candidate, "./"):
			candidate = candidate[2:]
		default:
			return origin + dir + "/" + candidate
		}
	}
}

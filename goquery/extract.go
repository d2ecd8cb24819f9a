package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/parsekit"
)

// DefaultLinkSelector matches every anchor carrying an href.
const DefaultLinkSelector = "a[href]"

// ExtractLinks returns the absolute URLs of the elements matching selector,
// in document order and without repeats. Elements contribute their href, or
// their src when they have no href. Non-HTTP links (javascript:, mailto:,
// etc.) and links back to baseURL itself are skipped.
func ExtractLinks(html, baseURL, selector string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EINVALID, "invalid base URL: %v", err)
	}
	if strings.TrimSpace(selector) == "" {
		selector = DefaultLinkSelector
	}
	m, err := compileSelector(selector)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	links := []string{}
	doc.FindMatcher(m).Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", sel.AttrOr("src", ""))
		if resolved := resolveLink(base, href); resolved != "" && !seen[resolved] {
			seen[resolved] = true
			links = append(links, resolved)
		}
	})
	return links, nil
}

// resolveLinks resolves raw link values against baseURL with the same
// filtering as ExtractLinks.
func resolveLinks(baseURL string, raw []string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return []string{}
	}
	links := make([]string, 0, len(raw))
	for _, href := range raw {
		if resolved := resolveLink(base, href); resolved != "" {
			links = append(links, resolved)
		}
	}
	return links
}

// resolveLink resolves href against base and strips the fragment.
// Returns empty string if href cannot be parsed, is not an HTTP link, or
// points back to base.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}

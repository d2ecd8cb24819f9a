package goquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/cespare/xxhash/v2"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/fwojciec/parsekit"
)

// fetchHTML retrieves pageURL and returns its body as UTF-8.
func fetchHTML(ctx context.Context, fetcher parsekit.Fetcher, content parsekit.ContentExtractor, pageURL string) (string, error) {
	resp, err := fetcher.Get(ctx, pageURL, map[string]string{"Accept": "text/html,application/xhtml+xml"})
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", parsekit.Errorf(parsekit.EFETCH, "HTTP %d for %s", resp.StatusCode, pageURL)
	}
	return content.NormalizeEncoding(resp.Body), nil
}

// compileSelector parses a caller-supplied CSS selector. goquery treats an
// unparseable selector as matching nothing, so syntax errors are caught here.
func compileSelector(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EINVALID, "invalid selector %q: %v", selector, err)
	}
	return sel, nil
}

// contentHash fingerprints extracted text so callers can detect changes.
func contentHash(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// openGraph reads the Open Graph properties of a page. Missing properties
// are empty strings.
func openGraph(html string) (*opengraph.OpenGraph, map[string]any) {
	og := opengraph.NewOpenGraph()
	_ = og.ProcessHTML(strings.NewReader(html))

	image := ""
	if len(og.Images) > 0 && og.Images[0] != nil {
		image = og.Images[0].URL
	}
	return og, map[string]any{
		"title":       og.Title,
		"type":        og.Type,
		"url":         og.URL,
		"description": og.Description,
		"site_name":   og.SiteName,
		"image":       image,
	}
}

// documentTitle returns the trimmed text of the first title element.
func documentTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// metaContent returns the content of the first meta element matching
// selector.
func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

// firstNonEmpty returns the first argument that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// optional maps blank strings to nil so absent values encode as null.
func optional(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// text returns the trimmed text of the first element of sel.
func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.First().Text())
}

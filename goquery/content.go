package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/parsekit"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// Ensure Toolkit implements parsekit.ContentExtractor at compile time.
var _ parsekit.ContentExtractor = (*Toolkit)(nil)

// Default toolkit settings, used when the configuration leaves a list empty.
var (
	DefaultRemoveTags       = []string{"script", "style", "iframe", "noscript"}
	DefaultRemoveAttributes = []string{"onclick", "onload", "onerror"}
	DefaultImageSelectors   = []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
		"img[src]",
	}
)

var (
	documentRoot = regexp.MustCompile(`(?i)<(html|body)[\s>]`)
	whitespace   = regexp.MustCompile(`\s+`)
	schemeColon  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)
)

// blockElements separate words when markup is flattened to text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true,
	"title": true, "tr": true, "ul": true,
}

// Toolkit implements parsekit.ContentExtractor on goquery documents.
type Toolkit struct {
	removeTags       []string
	removeAttributes []string
	imageSelectors   []string
}

// NewToolkit creates a Toolkit from cfg, falling back to the defaults for
// empty lists.
func NewToolkit(cfg parsekit.ExtractionConfig) *Toolkit {
	t := &Toolkit{
		removeTags:       cfg.RemoveTags,
		removeAttributes: cfg.RemoveAttributes,
		imageSelectors:   cfg.ImageSelectors,
	}
	if len(t.removeTags) == 0 {
		t.removeTags = DefaultRemoveTags
	}
	if len(t.removeAttributes) == 0 {
		t.removeAttributes = DefaultRemoveAttributes
	}
	if len(t.imageSelectors) == 0 {
		t.imageSelectors = DefaultImageSelectors
	}
	return t
}

// CleanHTML removes the configured tags and attributes and collapses runs of
// whitespace. Fragments stay fragments; full documents keep their root.
func (t *Toolkit) CleanHTML(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	doc, err := parse(content)
	if err != nil {
		return strings.TrimSpace(whitespace.ReplaceAllString(content, " "))
	}
	t.clean(doc)
	return strings.TrimSpace(whitespace.ReplaceAllString(render(doc, content), " "))
}

func (t *Toolkit) clean(doc *goquery.Document) {
	doc.Find(strings.Join(t.removeTags, ",")).Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range t.removeAttributes {
			s.RemoveAttr(attr)
		}
	})
}

// ExtractImages harvests image URLs selector by selector, resolving each
// against baseURL.
func (t *Toolkit) ExtractImages(content, baseURL string) []string {
	images := []string{}
	if strings.TrimSpace(content) == "" {
		return images
	}
	doc, err := parse(content)
	if err != nil {
		return images
	}
	for _, selector := range t.imageSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			attr := "src"
			if goquery.NodeName(s) == "meta" {
				attr = "content"
			}
			if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
				images = append(images, parsekit.ResolveURL(v, baseURL))
			}
		})
	}
	return images
}

// ExtractText cleans content and flattens it to single-spaced text.
func (t *Toolkit) ExtractText(content string) string {
	cleaned := t.CleanHTML(content)
	if cleaned == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(cleaned))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(whitespace.ReplaceAllString(b.String(), " "))
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockElements[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

// ExtractMetaTags maps property or name to content. The first occurrence of
// a key wins.
func (t *Toolkit) ExtractMetaTags(content string) map[string]string {
	tags := map[string]string{}
	if strings.TrimSpace(content) == "" {
		return tags
	}
	doc, err := parse(content)
	if err != nil {
		return tags
	}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key := strings.TrimSpace(s.AttrOr("property", ""))
		if key == "" {
			key = strings.TrimSpace(s.AttrOr("name", ""))
		}
		if key == "" {
			return
		}
		if _, ok := tags[key]; !ok {
			tags[key] = s.AttrOr("content", "")
		}
	})
	return tags
}

// ResolveLinks rewrites relative src and href attributes against baseURL.
// Fragment links and non-hierarchical schemes (mailto:, javascript:) are
// left alone.
func (t *Toolkit) ResolveLinks(content, baseURL string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	doc, err := parse(content)
	if err != nil {
		return content
	}
	for _, attr := range []string{"src", "href"} {
		doc.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			v := strings.TrimSpace(s.AttrOr(attr, ""))
			if v == "" || strings.HasPrefix(v, "#") {
				return
			}
			if schemeColon.MatchString(v) && !strings.Contains(v, "://") {
				return
			}
			s.SetAttr(attr, parsekit.ResolveURL(v, baseURL))
		})
	}
	return render(doc, content)
}

// NormalizeEncoding returns content unchanged when it is valid UTF-8 and
// decodes it as Windows-1252 otherwise.
func (t *Toolkit) NormalizeEncoding(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	if utf8.Valid(content) {
		return string(content)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		return strings.ToValidUTF8(string(content), "�")
	}
	return string(decoded)
}

func parse(content string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}

// render serializes doc in the shape of original: a full document when the
// input carried an html or body element, the head and body children
// otherwise.
func render(doc *goquery.Document, original string) string {
	if documentRoot.MatchString(original) {
		out, err := doc.Html()
		if err != nil {
			return ""
		}
		return out
	}
	head, _ := doc.Find("head").Html()
	body, _ := doc.Find("body").Html()
	return head + body
}

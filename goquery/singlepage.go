package goquery

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/parsekit"
)

// Single page extraction modes.
const (
	ModeAuto  = "auto"
	ModeCSS   = "css"
	ModeXPath = "xpath"
	ModeRegex = "regex"
)

// contentSelectors is the heuristic used in auto mode when no article
// extractor is configured or it finds nothing.
var contentSelectors = []string{
	"article",
	"main",
	`[class*="content"]`,
	`[class*="article"]`,
	`[id*="content"]`,
	`[id*="article"]`,
	"body",
}

// Ensure SinglePageParser implements parsekit.Parser at compile time.
var (
	_ parsekit.Parser    = (*SinglePageParser)(nil)
	_ parsekit.Describer = (*SinglePageParser)(nil)
)

// SinglePageParser extracts the content of one HTML page.
type SinglePageParser struct {
	fetcher parsekit.Fetcher
	content parsekit.ContentExtractor

	// Articles finds the main content in auto mode. Optional.
	Articles parsekit.ArticleExtractor

	// XPath evaluates xpath mode selectors. Without it xpath mode is
	// rejected as invalid.
	XPath parsekit.XPathSelector

	// Converter renders the markdown option. Optional.
	Converter parsekit.Converter
}

// NewSinglePageParser creates a SinglePageParser.
func NewSinglePageParser(fetcher parsekit.Fetcher, content parsekit.ContentExtractor) *SinglePageParser {
	return &SinglePageParser{fetcher: fetcher, content: content}
}

// Describe implements parsekit.Describer.
func (p *SinglePageParser) Describe() parsekit.ParserInfo {
	caps := []string{"css_selectors", "regex", "open_graph", "content_hash"}
	if p.XPath != nil {
		caps = append(caps, "xpath")
	}
	if p.Articles != nil {
		caps = append(caps, "article_extraction")
	}
	if p.Converter != nil {
		caps = append(caps, "markdown")
	}
	return parsekit.ParserInfo{
		Description:    "Content of a single web page",
		SupportedTypes: []string{ModeAuto, ModeCSS, ModeXPath, ModeRegex},
		Capabilities:   caps,
	}
}

// Extract fetches req.Source and returns a single item describing it.
//
// Options: selector (css and xpath modes), pattern (regex mode), clean_html
// and markdown.
func (p *SinglePageParser) Extract(ctx context.Context, req parsekit.ParseRequest) (*parsekit.Extraction, error) {
	mode := req.EffectiveType(ModeAuto)
	switch mode {
	case ModeAuto, ModeCSS, ModeXPath, ModeRegex:
	default:
		return nil, parsekit.Errorf(parsekit.EINVALID, "unsupported type %q", mode)
	}

	html, err := fetchHTML(ctx, p.fetcher, p.content, req.Source)
	if err != nil {
		return nil, err
	}

	item, err := p.ParseHTML(html, mode, req)
	if err != nil {
		return nil, err
	}

	return &parsekit.Extraction{
		Items:    []parsekit.Item{item},
		Metadata: map[string]any{"mode": mode},
	}, nil
}

// ParseHTML builds the item for an already fetched page.
func (p *SinglePageParser) ParseHTML(html, mode string, req parsekit.ParseRequest) (parsekit.Item, error) {
	if req.BoolOption("clean_html") {
		html = p.content.CleanHTML(html)
	}
	html = p.content.ResolveLinks(html, req.Source)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse HTML: %v", err)
	}

	item := parsekit.Item{}
	var article *parsekit.Article
	var extracted string

	switch mode {
	case ModeCSS:
		extracted, err = selectCSS(doc, html, req.Option("selector"))
	case ModeXPath:
		extracted, err = p.selectXPath(html, req.Option("selector"))
	case ModeRegex:
		var matches []string
		matches, err = matchPattern(html, req.Option("pattern"))
		item["matches"] = matches
		extracted = selectContent(doc, html)
	default:
		article = p.article(html, req.Source)
		if article != nil {
			extracted = article.ContentHTML
		} else {
			extracted = selectContent(doc, html)
		}
	}
	if err != nil {
		return nil, err
	}

	og, ogMap := openGraph(html)
	plain := p.content.ExtractText(extracted)

	item["url"] = req.Source
	item["title"] = firstNonEmpty(documentTitle(doc), og.Title, articleField(article, func(a *parsekit.Article) string { return a.Title }))
	item["description"] = firstNonEmpty(metaContent(doc, `meta[name="description"]`), og.Description, articleField(article, func(a *parsekit.Article) string { return a.Excerpt }))
	item["html"] = extracted
	item["content"] = plain
	item["images"] = p.content.ExtractImages(extracted, req.Source)
	item["content_hash"] = contentHash(plain)
	item["open_graph"] = ogMap
	if article != nil && article.Byline != "" {
		item["author"] = article.Byline
	}

	if req.BoolOption("markdown") && p.Converter != nil {
		md, err := p.Converter.Convert(extracted, req.Source)
		if err != nil {
			return nil, err
		}
		item["markdown"] = md
	}

	return item, nil
}

func (p *SinglePageParser) article(html, pageURL string) *parsekit.Article {
	if p.Articles == nil {
		return nil
	}
	a, err := p.Articles.ExtractArticle(html, pageURL)
	if err != nil || a == nil || strings.TrimSpace(a.ContentHTML) == "" {
		return nil
	}
	return a
}

func (p *SinglePageParser) selectXPath(html, expr string) (string, error) {
	if strings.TrimSpace(expr) == "" {
		return html, nil
	}
	if p.XPath == nil {
		return "", parsekit.Errorf(parsekit.EINVALID, "xpath extraction is not available")
	}
	nodes, err := p.XPath.SelectHTML(html, expr)
	if err != nil {
		return "", err
	}
	if len(nodes) == 0 {
		return "", parsekit.Errorf(parsekit.EEXTRACT, "xpath %q matched nothing", expr)
	}
	return nodes[0], nil
}

// selectCSS returns the outer HTML of the first element matching selector.
// A blank selector selects the whole page.
func selectCSS(doc *goquery.Document, html, selector string) (string, error) {
	if strings.TrimSpace(selector) == "" {
		return html, nil
	}
	m, err := compileSelector(selector)
	if err != nil {
		return "", err
	}
	sel := doc.FindMatcher(m).First()
	if sel.Length() == 0 {
		return "", parsekit.Errorf(parsekit.EEXTRACT, "selector %q matched nothing", selector)
	}
	out, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", parsekit.Errorf(parsekit.EEXTRACT, "rendering selection: %v", err)
	}
	return out, nil
}

// selectContent applies the content heuristic and falls back to the page.
func selectContent(doc *goquery.Document, html string) string {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if out, err := goquery.OuterHtml(sel); err == nil {
			return out
		}
	}
	return html
}

// matchPattern returns every match of pattern in html, or the first
// capture group when the pattern has one.
func matchPattern(html, pattern string) ([]string, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, parsekit.Errorf(parsekit.EINVALID, "pattern option is required in regex mode")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EINVALID, "invalid pattern: %v", err)
	}
	matches := []string{}
	for _, m := range re.FindAllStringSubmatch(html, -1) {
		if len(m) > 1 {
			matches = append(matches, m[1])
		} else {
			matches = append(matches, m[0])
		}
	}
	return matches, nil
}

func articleField(a *parsekit.Article, get func(*parsekit.Article) string) string {
	if a == nil {
		return ""
	}
	return get(a)
}

package goquery

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fwojciec/parsekit"
	"github.com/fwojciec/parsekit/bloom"
	"golang.org/x/sync/errgroup"
)

// Multi URL discovery modes.
const (
	MultiList    = "list"
	MultiCSS     = "css"
	MultiXPath   = "xpath"
	MultiRegex   = "regex"
	MultiSitemap = "sitemap"
)

// Multi defaults.
const (
	DefaultMaxURLs          = 50
	DefaultMultiConcurrency = 5
)

// Ensure MultiParser implements parsekit.Parser at compile time.
var (
	_ parsekit.Parser    = (*MultiParser)(nil)
	_ parsekit.Describer = (*MultiParser)(nil)
)

// MultiParser discovers a set of page URLs and runs each through a page
// parser, normally the single_page strategy.
type MultiParser struct {
	fetcher parsekit.Fetcher
	content parsekit.ContentExtractor
	pages   parsekit.Parser

	// XPath discovers links in xpath mode. Optional.
	XPath parsekit.XPathSelector

	// Sitemaps discovers links in sitemap mode. Optional.
	Sitemaps parsekit.SitemapService
}

// NewMultiParser creates a MultiParser that parses every discovered URL
// with pages.
func NewMultiParser(fetcher parsekit.Fetcher, content parsekit.ContentExtractor, pages parsekit.Parser) *MultiParser {
	return &MultiParser{fetcher: fetcher, content: content, pages: pages}
}

// Describe implements parsekit.Describer.
func (p *MultiParser) Describe() parsekit.ParserInfo {
	types := []string{MultiList, MultiCSS, MultiRegex}
	if p.XPath != nil {
		types = append(types, MultiXPath)
	}
	if p.Sitemaps != nil {
		types = append(types, MultiSitemap)
	}
	return parsekit.ParserInfo{
		Description:    "Content of many pages from a URL list or link discovery",
		SupportedTypes: types,
		Capabilities:   []string{"url_list", "link_discovery", "concurrent_fetch"},
	}
}

// Extract discovers URLs according to the request type and parses each.
//
// Options: selector (css and xpath), pattern (regex), include and exclude
// (sitemap), max_urls, concurrency and page_type (mode for each page).
// Remaining options are passed through to the page parser.
func (p *MultiParser) Extract(ctx context.Context, req parsekit.ParseRequest) (*parsekit.Extraction, error) {
	mode := req.EffectiveType(MultiList)
	if mode == parsekit.DefaultType {
		mode = MultiList
	}

	urls, err := p.discover(ctx, mode, req)
	if err != nil {
		return nil, err
	}

	urls = bloom.Dedup(urls)
	if n := req.IntOption("max_urls", DefaultMaxURLs); len(urls) > n {
		urls = urls[:n]
	}

	items := make([]parsekit.Item, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.IntOption("concurrency", DefaultMultiConcurrency))
	for i, u := range urls {
		g.Go(func() error {
			items[i] = p.parsePage(gctx, u, req)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, parsekit.Errorf(parsekit.ECANCELED, "multi parse canceled: %v", err)
	}

	successful := 0
	for _, item := range items {
		if item["parse_success"] == true {
			successful++
		}
	}

	return &parsekit.Extraction{
		Items: items,
		Metadata: map[string]any{
			"total_urls": len(items),
			"successful": successful,
			"failed":     len(items) - successful,
		},
	}, nil
}

func (p *MultiParser) discover(ctx context.Context, mode string, req parsekit.ParseRequest) ([]string, error) {
	switch mode {
	case MultiList:
		return ParseURLList(req.Source)
	case MultiSitemap:
		if p.Sitemaps == nil {
			return nil, parsekit.Errorf(parsekit.EINVALID, "sitemap discovery is not configured")
		}
		filter, err := parsekit.NewURLFilter(splitOption(req.Option("include")), splitOption(req.Option("exclude")))
		if err != nil {
			return nil, err
		}
		return p.Sitemaps.DiscoverURLs(ctx, req.Source, filter)
	case MultiCSS, MultiXPath, MultiRegex:
	default:
		return nil, parsekit.Errorf(parsekit.EINVALID, "unsupported type %q", mode)
	}

	if mode == MultiXPath && p.XPath == nil {
		return nil, parsekit.Errorf(parsekit.EINVALID, "xpath discovery is not configured")
	}
	if !parsekit.IsHTTPURL(req.Source) {
		return nil, parsekit.Errorf(parsekit.EINVALID, "source must be an http(s) URL in %s mode", mode)
	}

	html, err := fetchHTML(ctx, p.fetcher, p.content, req.Source)
	if err != nil {
		return nil, err
	}

	switch mode {
	case MultiXPath:
		expr := req.Option("selector")
		if strings.TrimSpace(expr) == "" {
			expr = "//a/@href"
		}
		values, err := p.XPath.SelectValues(html, expr)
		if err != nil {
			return nil, err
		}
		return resolveLinks(req.Source, values), nil
	case MultiRegex:
		matches, err := matchPattern(html, req.Option("pattern"))
		if err != nil {
			return nil, err
		}
		return resolveLinks(req.Source, matches), nil
	default:
		return ExtractLinks(html, req.Source, req.Option("selector"))
	}
}

func (p *MultiParser) parsePage(ctx context.Context, pageURL string, req parsekit.ParseRequest) parsekit.Item {
	item := parsekit.Item{}
	ext, err := p.pages.Extract(ctx, parsekit.ParseRequest{
		Source:   pageURL,
		Type:     req.Option("page_type"),
		Keywords: req.Keywords,
		Options:  req.Options,
		Filters:  req.Filters,
	})
	if err == nil && ext != nil && len(ext.Items) > 0 {
		for k, v := range ext.Items[0] {
			item[k] = v
		}
	}
	item["source_url"] = pageURL
	item["parse_success"] = err == nil
	item["parse_error"] = nil
	if err != nil {
		item["parse_error"] = parsekit.ErrorMessage(err)
	}
	return item
}

// ParseURLList reads a JSON array, comma separated list or newline
// separated list of URLs. Entries that are not http(s) URLs are skipped.
func ParseURLList(source string) ([]string, error) {
	source = strings.TrimSpace(source)

	var raw []string
	switch {
	case strings.HasPrefix(source, "["):
		if err := json.Unmarshal([]byte(source), &raw); err != nil {
			return nil, parsekit.Errorf(parsekit.EINVALID, "invalid source format: %v", err)
		}
	case strings.Contains(source, ","):
		raw = strings.Split(source, ",")
	case strings.Contains(source, "\n"):
		raw = strings.Split(source, "\n")
	default:
		return nil, parsekit.Errorf(parsekit.EINVALID, "invalid source format: expected JSON array, comma-separated, or newline-separated URLs")
	}

	urls := []string{}
	for _, u := range raw {
		u = strings.TrimSpace(u)
		if parsekit.IsHTTPURL(u) {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// splitOption splits a comma separated option into trimmed parts.
func splitOption(v string) []string {
	var parts []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

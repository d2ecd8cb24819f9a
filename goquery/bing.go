package goquery

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/parsekit"
)

// Bing search verticals.
const (
	BingWeb    = "web"
	BingNews   = "news"
	BingImages = "images"
)

// BingBaseURL is the search host.
const BingBaseURL = "https://www.bing.com"

// DefaultBingCount is the number of results requested when the request has
// no limit.
const DefaultBingCount = 50

var bingPaths = map[string]string{
	BingWeb:    "/search",
	BingNews:   "/news/search",
	BingImages: "/images/search",
}

// Ensure BingParser implements parsekit.Parser at compile time.
var (
	_ parsekit.Parser    = (*BingParser)(nil)
	_ parsekit.Describer = (*BingParser)(nil)
)

// BingParser scrapes Bing result pages.
type BingParser struct {
	fetcher parsekit.Fetcher
	content parsekit.ContentExtractor
}

// NewBingParser creates a BingParser.
func NewBingParser(fetcher parsekit.Fetcher, content parsekit.ContentExtractor) *BingParser {
	return &BingParser{fetcher: fetcher, content: content}
}

// Describe implements parsekit.Describer.
func (p *BingParser) Describe() parsekit.ParserInfo {
	return parsekit.ParserInfo{
		Description:    "Bing web, news and image search results",
		SupportedTypes: []string{BingWeb, BingNews, BingImages},
		Capabilities:   []string{"filters", "keywords"},
	}
}

// Extract searches for req.Source (plus any keywords) and returns one item
// per result.
func (p *BingParser) Extract(ctx context.Context, req parsekit.ParseRequest) (*parsekit.Extraction, error) {
	searchURL, err := BingSearchURL(req)
	if err != nil {
		return nil, err
	}

	html, err := fetchHTML(ctx, p.fetcher, p.content, searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse HTML: %v", err)
	}

	var items []parsekit.Item
	switch bingType(req) {
	case BingNews:
		items = p.newsResults(doc)
	case BingImages:
		items = imageResults(doc)
	default:
		items = p.webResults(doc)
	}

	return &parsekit.Extraction{
		Items:    items,
		Metadata: map[string]any{"query": searchQuery(req), "search_url": searchURL},
	}, nil
}

func (p *BingParser) webResults(doc *goquery.Document) []parsekit.Item {
	items := []parsekit.Item{}
	doc.Find("ol#b_results > li.b_algo").Each(func(i int, s *goquery.Selection) {
		link := s.Find("h2 a").First()
		desc := ""
		if para := s.Find("p").First(); para.Length() > 0 {
			h, _ := goquery.OuterHtml(para)
			desc = p.content.ExtractText(h)
		}
		items = append(items, parsekit.Item{
			"title":          optional(strings.TrimSpace(link.Text())),
			"url":            optional(link.AttrOr("href", "")),
			"description":    optional(desc),
			"domain":         optional(text(s.Find(".b_attribution cite"))),
			"type":           resultType(s.AttrOr("class", "")),
			"published_time": optional(text(s.Find(".news_dt"))),
			"position":       i + 1,
		})
	})
	return items
}

func (p *BingParser) newsResults(doc *goquery.Document) []parsekit.Item {
	items := []parsekit.Item{}
	doc.Find(".news-card").Each(func(i int, s *goquery.Selection) {
		link := s.Find("a.title").First()
		href := firstNonEmpty(s.AttrOr("data-url", ""), link.AttrOr("href", ""))
		items = append(items, parsekit.Item{
			"title":          optional(firstNonEmpty(s.AttrOr("data-title", ""), link.Text())),
			"url":            optional(href),
			"description":    optional(text(s.Find(".snippet"))),
			"domain":         optional(firstNonEmpty(s.AttrOr("data-author", ""), text(s.Find(".source a")))),
			"type":           BingNews,
			"published_time": optional(firstNonEmpty(text(s.Find(".news_dt")), s.Find(".source span[aria-label]").First().AttrOr("aria-label", ""))),
			"position":       i + 1,
		})
	})
	return items
}

// imageMeta is the JSON carried in the m attribute of image results.
type imageMeta struct {
	MediaURL string `json:"murl"`
	PageURL  string `json:"purl"`
	Title    string `json:"t"`
}

func imageResults(doc *goquery.Document) []parsekit.Item {
	items := []parsekit.Item{}
	doc.Find("a.iusc[m]").Each(func(_ int, s *goquery.Selection) {
		var m imageMeta
		if err := json.Unmarshal([]byte(s.AttrOr("m", "")), &m); err != nil || m.MediaURL == "" {
			return
		}
		domain := ""
		if u, err := url.Parse(m.PageURL); err == nil {
			domain = u.Host
		}
		items = append(items, parsekit.Item{
			"title":          optional(m.Title),
			"url":            optional(m.PageURL),
			"description":    nil,
			"domain":         optional(domain),
			"type":           "image",
			"image_url":      m.MediaURL,
			"published_time": nil,
			"position":       len(items) + 1,
		})
	})
	return items
}

func resultType(class string) string {
	switch {
	case strings.Contains(class, "b_vidans"):
		return "video"
	case strings.Contains(class, "b_news"):
		return "news"
	case strings.Contains(class, "b_imageans"):
		return "image"
	}
	return BingWeb
}

func bingType(req parsekit.ParseRequest) string {
	typ := req.EffectiveType(BingWeb)
	if _, ok := bingPaths[typ]; !ok {
		return BingWeb
	}
	return typ
}

func searchQuery(req parsekit.ParseRequest) string {
	parts := append([]string{strings.TrimSpace(req.Source)}, req.Keywords...)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// BingSearchURL builds the results URL for req.
//
// Enough results are requested to cover offset+limit so the page slice is
// taken from a complete list; the "first" option forwards an upstream
// offset. Filters become one filters parameter each, in key order.
func BingSearchURL(req parsekit.ParseRequest) (string, error) {
	typ := req.EffectiveType(BingWeb)
	if typ == parsekit.DefaultType {
		typ = BingWeb
	}
	path, ok := bingPaths[typ]
	if !ok {
		return "", parsekit.Errorf(parsekit.EINVALID, "unsupported type %q", typ)
	}

	query := searchQuery(req)
	if query == "" {
		return "", parsekit.Errorf(parsekit.EINVALID, "search query is required")
	}

	count := DefaultBingCount
	if req.Limit > 0 {
		count = req.Offset + req.Limit
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("count", strconv.Itoa(count))
	if first := req.IntOption("first", 0); first > 0 {
		q.Set("first", strconv.Itoa(first))
	}

	keys := make([]string, 0, len(req.Filters))
	for k := range req.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Add("filters", k+`:"`+req.Filters[k]+`"`)
	}

	return BingBaseURL + path + "?" + q.Encode(), nil
}

package goquery

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/parsekit"
)

// CraigslistBaseURL prefixes root-relative listing links.
const CraigslistBaseURL = "https://craigslist.org"

// Ensure CraigslistParser implements parsekit.Parser at compile time.
var (
	_ parsekit.Parser    = (*CraigslistParser)(nil)
	_ parsekit.Describer = (*CraigslistParser)(nil)
)

// CraigslistParser extracts listings from Craigslist search pages.
type CraigslistParser struct {
	fetcher parsekit.Fetcher
	content parsekit.ContentExtractor
}

// NewCraigslistParser creates a CraigslistParser.
func NewCraigslistParser(fetcher parsekit.Fetcher, content parsekit.ContentExtractor) *CraigslistParser {
	return &CraigslistParser{fetcher: fetcher, content: content}
}

// Describe implements parsekit.Describer.
func (p *CraigslistParser) Describe() parsekit.ParserInfo {
	return parsekit.ParserInfo{
		Description:    "Craigslist search listings",
		SupportedTypes: []string{"search"},
		Capabilities:   []string{"keywords"},
	}
}

// Extract fetches the search page built from req and returns one item per
// distinct listing.
func (p *CraigslistParser) Extract(ctx context.Context, req parsekit.ParseRequest) (*parsekit.Extraction, error) {
	searchURL, err := CraigslistSearchURL(req)
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

	items := []parsekit.Item{}
	seen := map[string]bool{}
	doc.Find("ul.rows li.result-row").Each(func(_ int, s *goquery.Selection) {
		pid := s.AttrOr("data-pid", "")
		if pid != "" {
			if seen[pid] {
				return
			}
			seen[pid] = true
		}

		title := s.Find("a.result-title").First()
		href := title.AttrOr("href", "")
		if strings.HasPrefix(href, "/") {
			href = CraigslistBaseURL + href
		}
		image := s.Find("a.result-image")

		items = append(items, parsekit.Item{
			"post_id":   pid,
			"title":     optional(title.Text()),
			"url":       optional(href),
			"price":     optional(text(s.Find(".result-price"))),
			"location":  optional(text(s.Find(".result-hood"))),
			"posted_at": optional(s.Find("time[datetime]").First().AttrOr("datetime", "")),
			"housing":   optional(text(s.Find(".housing"))),
			"has_image": image.Length() > 0,
			"image_ids": optional(image.Filter("[data-ids]").First().AttrOr("data-ids", "")),
		})
	})

	return &parsekit.Extraction{
		Items:    items,
		Metadata: map[string]any{"search_url": searchURL},
	}, nil
}

// CraigslistSearchURL appends the keyword query and the upstream offset
// (option "s") to the search page in req.Source.
func CraigslistSearchURL(req parsekit.ParseRequest) (string, error) {
	u, err := url.Parse(strings.TrimSpace(req.Source))
	if err != nil || !parsekit.IsHTTPURL(req.Source) {
		return "", parsekit.Errorf(parsekit.EINVALID, "source must be a Craigslist search URL")
	}

	q := u.Query()
	if len(req.Keywords) > 0 {
		q.Set("query", strings.Join(req.Keywords, " "))
	}
	q.Set("s", strconv.Itoa(req.IntOption("s", 0)))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Package gofeed implements the feeds strategy on top of mmcdole/gofeed.
package gofeed

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/fwojciec/parsekit"
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	jsonfeed "github.com/mmcdole/gofeed/json"
	"github.com/mmcdole/gofeed/rss"
)

// Feed types accepted in requests. Google and Bing news feeds are RSS.
const (
	TypeGoogleNews = "google-news"
	TypeBingNews   = "bing-news"
)

// Ensure FeedsParser implements parsekit.Parser at compile time.
var (
	_ parsekit.Parser    = (*FeedsParser)(nil)
	_ parsekit.Describer = (*FeedsParser)(nil)
)

// FeedsParser extracts entries from RSS, Atom and JSON feeds.
type FeedsParser struct {
	fetcher parsekit.Fetcher
	content parsekit.ContentExtractor
}

// NewFeedsParser creates a FeedsParser.
func NewFeedsParser(fetcher parsekit.Fetcher, content parsekit.ContentExtractor) *FeedsParser {
	return &FeedsParser{fetcher: fetcher, content: content}
}

// Describe implements parsekit.Describer.
func (p *FeedsParser) Describe() parsekit.ParserInfo {
	return parsekit.ParserInfo{
		Description:    "RSS, Atom and JSON feed entries",
		SupportedTypes: []string{parsekit.FeedRSS, parsekit.FeedAtom, parsekit.FeedJSON, TypeGoogleNews, TypeBingNews},
		Capabilities:   []string{"format_detection", "enclosures", "images"},
	}
}

// Extract fetches the feed at req.Source and returns one item per entry.
func (p *FeedsParser) Extract(ctx context.Context, req parsekit.ParseRequest) (*parsekit.Extraction, error) {
	resp, err := p.fetcher.Get(ctx, req.Source, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, parsekit.Errorf(parsekit.EFETCH, "HTTP %d for %s", resp.StatusCode, req.Source)
	}

	content := p.content.NormalizeEncoding(resp.Body)
	format := parsekit.DetectFeedFormat(content, req.EffectiveType(parsekit.DefaultType))

	feed, err := parse(content, format)
	if err != nil {
		return nil, err
	}

	items := make([]parsekit.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		items = append(items, p.item(entry, feed.Link))
	}

	return &parsekit.Extraction{
		Items: items,
		Metadata: map[string]any{
			"detected_type": format,
			"feed_title":    feed.Title,
			"feed_link":     feed.Link,
		},
	}, nil
}

func parse(content, format string) (*gofeed.Feed, error) {
	r := strings.NewReader(content)
	switch format {
	case parsekit.FeedJSON:
		if err := checkJSONFeed(content); err != nil {
			return nil, err
		}
		raw, err := (&jsonfeed.Parser{}).Parse(r)
		if err != nil {
			return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse JSON feed: %v", err)
		}
		feed, err := (&gofeed.DefaultJSONTranslator{}).Translate(raw)
		if err != nil {
			return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse JSON feed: %v", err)
		}
		return feed, nil
	case parsekit.FeedAtom:
		raw, err := (&atom.Parser{}).Parse(r)
		if err != nil {
			return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse Atom feed: %v", err)
		}
		feed, err := (&gofeed.DefaultAtomTranslator{}).Translate(raw)
		if err != nil {
			return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse Atom feed: %v", err)
		}
		return feed, nil
	default:
		raw, err := (&rss.Parser{}).Parse(r)
		if err != nil {
			return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse RSS feed: %v", err)
		}
		feed, err := (&gofeed.DefaultRSSTranslator{}).Translate(raw)
		if err != nil {
			return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse RSS feed: %v", err)
		}
		return feed, nil
	}
}

// checkJSONFeed rejects bodies that are not JSON objects with an items array.
func checkJSONFeed(content string) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimPrefix(content, "\ufeff")), &probe); err != nil {
		return parsekit.Errorf(parsekit.EEXTRACT, "failed to parse JSON feed: %v", err)
	}
	items, ok := probe["items"]
	if !ok || !strings.HasPrefix(strings.TrimSpace(string(items)), "[") {
		return parsekit.Errorf(parsekit.EEXTRACT, "invalid JSON feed: missing items array")
	}
	return nil
}

func (p *FeedsParser) item(entry *gofeed.Item, feedLink string) parsekit.Item {
	link := entry.Link
	if link == "" && parsekit.IsHTTPURL(entry.GUID) {
		link = entry.GUID
	}
	base := link
	if base == "" {
		base = feedLink
	}

	description := strings.TrimSpace(entry.Description)
	if description == "" {
		description = p.content.ExtractText(entry.Content)
	}

	published := entry.Published
	if published == "" {
		published = entry.Updated
	}

	item := parsekit.Item{
		"title":        strings.TrimSpace(entry.Title),
		"url":          link,
		"description":  description,
		"published_at": published,
		"author":       author(entry),
	}

	for _, enc := range entry.Enclosures {
		if enc != nil && enc.URL != "" {
			item["enclosure"] = enc.URL
			break
		}
	}

	images := p.content.ExtractImages(entry.Description+entry.Content, base)
	if entry.Image != nil && entry.Image.URL != "" {
		if img := parsekit.ResolveURL(entry.Image.URL, base); img != "" && !slices.Contains(images, img) {
			images = append(images, img)
		}
	}
	if len(images) > 0 {
		item["images"] = images
	}

	return item
}

func author(entry *gofeed.Item) string {
	for _, a := range entry.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	if entry.Author != nil {
		return entry.Author.Name
	}
	return ""
}

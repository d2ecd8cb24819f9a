package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/parsekit"
)

// Medium request types.
const (
	MediumArticle     = "article"
	MediumUser        = "user"
	MediumPublication = "publication"
	MediumTopic       = "topic"
)

// MediumBaseURL hosts profile, publication and tag feeds.
const MediumBaseURL = "https://medium.com"

var paywallMarkers = []string{"meteredContent", "paywall", "member-only"}

// Ensure MediumParser implements parsekit.Parser at compile time.
var (
	_ parsekit.Parser    = (*MediumParser)(nil)
	_ parsekit.Describer = (*MediumParser)(nil)
)

// MediumParser extracts Medium articles. Users, publications and topics are
// read through their RSS feeds.
type MediumParser struct {
	fetcher parsekit.Fetcher
	content parsekit.ContentExtractor

	// Feeds parses the RSS feeds of non-article types. Without it only
	// articles are supported.
	Feeds parsekit.Parser
}

// NewMediumParser creates a MediumParser.
func NewMediumParser(fetcher parsekit.Fetcher, content parsekit.ContentExtractor) *MediumParser {
	return &MediumParser{fetcher: fetcher, content: content}
}

// Describe implements parsekit.Describer.
func (p *MediumParser) Describe() parsekit.ParserInfo {
	info := parsekit.ParserInfo{
		Description:    "Medium articles, authors, publications and topics",
		SupportedTypes: []string{MediumArticle},
		Capabilities:   []string{"paywall_detection", "content_hash"},
	}
	if p.Feeds != nil {
		info.SupportedTypes = append(info.SupportedTypes, MediumUser, MediumPublication, MediumTopic)
		info.Capabilities = append(info.Capabilities, "rss_feeds")
	}
	return info
}

// Extract returns the article at req.Source, or the entries of the feed
// named by req.Source for user, publication and topic types.
func (p *MediumParser) Extract(ctx context.Context, req parsekit.ParseRequest) (*parsekit.Extraction, error) {
	typ := req.EffectiveType(MediumArticle)
	if typ == parsekit.DefaultType {
		typ = MediumArticle
	}

	switch typ {
	case MediumArticle:
		return p.article(ctx, req.Source)
	case MediumUser, MediumPublication, MediumTopic:
		if p.Feeds == nil {
			return nil, parsekit.Errorf(parsekit.EINVALID, "type %q requires feed support", typ)
		}
		feedURL, err := MediumFeedURL(typ, req.Source)
		if err != nil {
			return nil, err
		}
		ext, err := p.Feeds.Extract(ctx, parsekit.ParseRequest{Source: feedURL, Type: parsekit.FeedRSS})
		if err != nil {
			return nil, err
		}
		if ext.Metadata == nil {
			ext.Metadata = map[string]any{}
		}
		ext.Metadata["feed_url"] = feedURL
		return ext, nil
	default:
		return nil, parsekit.Errorf(parsekit.EINVALID, "unsupported type %q", typ)
	}
}

func (p *MediumParser) article(ctx context.Context, pageURL string) (*parsekit.Extraction, error) {
	html, err := fetchHTML(ctx, p.fetcher, p.content, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse HTML: %v", err)
	}

	articleHTML := html
	if sel := doc.Find("article").First(); sel.Length() > 0 {
		if out, err := goquery.OuterHtml(sel); err == nil {
			articleHTML = out
		}
	}
	cleaned := p.content.CleanHTML(articleHTML)
	plain := p.content.ExtractText(cleaned)
	og, _ := openGraph(html)

	tags := []string{}
	doc.Find(`meta[property="article:tag"]`).Each(func(_ int, s *goquery.Selection) {
		if tag := strings.TrimSpace(s.AttrOr("content", "")); tag != "" {
			tags = append(tags, tag)
		}
	})

	item := parsekit.Item{
		"url":           pageURL,
		"title":         optional(firstNonEmpty(documentTitle(doc), text(doc.Find("article h1")), og.Title)),
		"author":        optional(firstNonEmpty(metaContent(doc, `meta[name="author"]`), metaContent(doc, `meta[property="article:author"]`))),
		"description":   optional(firstNonEmpty(og.Description, metaContent(doc, `meta[name="description"]`))),
		"content":       plain,
		"html":          cleaned,
		"published_at":  optional(metaContent(doc, `meta[property="article:published_time"]`)),
		"tags":          tags,
		"reading_time":  optional(metaContent(doc, `meta[name="twitter:data1"]`)),
		"images":        p.content.ExtractImages(articleHTML, pageURL),
		"is_paywalled":  isPaywalled(html),
		"claps":         optional(text(doc.Find(`button[data-action="show-recommends-list"] span`))),
		"canonical_url": optional(doc.Find(`link[rel="canonical"]`).First().AttrOr("href", "")),
		"publication":   optional(firstNonEmpty(og.SiteName, metaContent(doc, `meta[property="og:site_name"]`))),
		"content_hash":  contentHash(plain),
	}

	return &parsekit.Extraction{Items: []parsekit.Item{item}}, nil
}

func isPaywalled(html string) bool {
	for _, marker := range paywallMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}

// MediumFeedURL returns the RSS feed of a user, publication or topic.
// Sources may be names, @handles or medium.com URLs; feed URLs pass through.
func MediumFeedURL(typ, source string) (string, error) {
	source = strings.TrimSpace(source)
	if parsekit.IsHTTPURL(source) {
		u, err := url.Parse(source)
		if err != nil {
			return "", parsekit.Errorf(parsekit.EINVALID, "invalid Medium URL: %v", err)
		}
		if strings.HasPrefix(u.Path, "/feed/") {
			return source, nil
		}
		source = strings.Trim(u.Path, "/")
		if typ == MediumTopic {
			source = strings.TrimPrefix(source, "tag/")
		}
	}

	name := strings.Trim(source, "/")
	if name == "" {
		return "", parsekit.Errorf(parsekit.EINVALID, "Medium %s name is required", typ)
	}

	switch typ {
	case MediumUser:
		return MediumBaseURL + "/feed/@" + strings.TrimPrefix(name, "@"), nil
	case MediumTopic:
		return MediumBaseURL + "/feed/tag/" + name, nil
	default:
		return MediumBaseURL + "/feed/" + name, nil
	}
}

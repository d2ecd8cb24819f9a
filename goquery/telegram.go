package goquery

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/parsekit"
)

// TelegramBaseURL serves the public web preview of channels.
const TelegramBaseURL = "https://t.me"

var backgroundImage = regexp.MustCompile(`background-image:\s*url\(['"]?([^'")]+)['"]?\)`)

// Ensure TelegramParser implements parsekit.Parser at compile time.
var (
	_ parsekit.Parser    = (*TelegramParser)(nil)
	_ parsekit.Describer = (*TelegramParser)(nil)
)

// TelegramParser extracts messages from the web preview of public channels.
type TelegramParser struct {
	fetcher parsekit.Fetcher
	content parsekit.ContentExtractor
}

// NewTelegramParser creates a TelegramParser.
func NewTelegramParser(fetcher parsekit.Fetcher, content parsekit.ContentExtractor) *TelegramParser {
	return &TelegramParser{fetcher: fetcher, content: content}
}

// Describe implements parsekit.Describer.
func (p *TelegramParser) Describe() parsekit.ParserInfo {
	return parsekit.ParserInfo{
		Description:    "Messages of public Telegram channels",
		SupportedTypes: []string{"channel"},
		Capabilities:   []string{"media_detection", "forwards", "replies"},
	}
}

// Extract fetches the channel preview and returns one item per message.
// The "before" option pages back from a message id.
func (p *TelegramParser) Extract(ctx context.Context, req parsekit.ParseRequest) (*parsekit.Extraction, error) {
	channelURL, err := ChannelURL(req.Source, req.Option("before"))
	if err != nil {
		return nil, err
	}

	html, err := fetchHTML(ctx, p.fetcher, p.content, channelURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse HTML: %v", err)
	}

	items := []parsekit.Item{}
	doc.Find("div.tgme_widget_message[data-post]").Each(func(_ int, s *goquery.Selection) {
		items = append(items, p.message(s, channelURL))
	})

	return &parsekit.Extraction{
		Items:    items,
		Metadata: map[string]any{"channel_url": channelURL},
	}, nil
}

func (p *TelegramParser) message(s *goquery.Selection, channelURL string) parsekit.Item {
	post := s.AttrOr("data-post", "")
	id := post
	if i := strings.LastIndex(post, "/"); i >= 0 {
		id = post[i+1:]
	}

	messageHTML, _ := goquery.OuterHtml(s)

	var textHTML strings.Builder
	s.Find(".tgme_widget_message_text").Each(func(_ int, t *goquery.Selection) {
		if h, err := goquery.OuterHtml(t); err == nil {
			textHTML.WriteString(h)
		}
	})

	reply := s.Find(".tgme_widget_message_reply")
	author := s.Find(".tgme_widget_message_author").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return a.ParentsFiltered(".tgme_widget_message_reply").Length() == 0
	})
	forwarded := s.Find(".tgme_widget_message_forwarded_from")

	images := p.content.ExtractImages(messageHTML, channelURL)
	s.Find(`[style*="background-image"]`).Each(func(_ int, el *goquery.Selection) {
		if m := backgroundImage.FindStringSubmatch(el.AttrOr("style", "")); m != nil {
			images = append(images, parsekit.ResolveURL(m[1], channelURL))
		}
	})

	return parsekit.Item{
		"url":             TelegramBaseURL + "/" + post,
		"message_id":      id,
		"author":          optional(text(author)),
		"content":         p.content.ExtractText(textHTML.String()),
		"html":            messageHTML,
		"created_at":      optional(s.Find("time[datetime]").First().AttrOr("datetime", "")),
		"views":           optional(text(s.Find(".tgme_widget_message_views"))),
		"type":            messageType(s),
		"images":          images,
		"video_url":       optional(s.Find("video[src]").First().AttrOr("src", "")),
		"forwarded":       forwarded.Length() > 0,
		"forwarded_from":  optional(text(forwarded)),
		"is_reply":        reply.Length() > 0,
		"reply_to_author": optional(text(reply.Find(".tgme_widget_message_author"))),
	}
}

func messageType(s *goquery.Selection) string {
	switch {
	case s.Find(`[class*="tgme_widget_message_video"]`).Length() > 0:
		return "video"
	case s.Find(`[class*="tgme_widget_message_photo"]`).Length() > 0:
		return "photo"
	case s.Find(`[class*="tgme_widget_message_document"]`).Length() > 0:
		return "document"
	}
	return "text"
}

// ChannelURL maps a channel name, @handle or t.me link to the preview page.
func ChannelURL(source, before string) (string, error) {
	source = strings.TrimSpace(source)
	if strings.HasPrefix(strings.ToLower(source), "t.me/") {
		source = "https://" + source
	}

	var u *url.URL
	if parsekit.IsHTTPURL(source) {
		parsed, err := url.Parse(source)
		if err != nil {
			return "", parsekit.Errorf(parsekit.EINVALID, "invalid channel URL: %v", err)
		}
		u = parsed
		if strings.EqualFold(u.Host, "t.me") && !strings.HasPrefix(u.Path, "/s/") {
			u.Path = "/s" + u.Path
		}
	} else {
		name := strings.TrimPrefix(source, "@")
		if name == "" || strings.ContainsAny(name, "/?# ") {
			return "", parsekit.Errorf(parsekit.EINVALID, "invalid channel name %q", source)
		}
		u, _ = url.Parse(TelegramBaseURL + "/s/" + name)
	}

	if before != "" {
		q := u.Query()
		q.Set("before", before)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

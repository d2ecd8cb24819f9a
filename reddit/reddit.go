// Package reddit implements the reddit strategy over Reddit's public JSON
// listings.
package reddit

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/parsekit"
)

// Request types.
const (
	TypeSubreddit = "subreddit"
	TypeUser      = "user"
	TypePost      = "post"
)

// BaseURL is where bare subreddit and user names are resolved.
const BaseURL = "https://www.reddit.com"

const createdLayout = "2006-01-02 15:04:05"

var (
	namePrefix = regexp.MustCompile(`^/?(r|u|user)/`)
	imageExt   = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)
)

// Ensure Parser implements parsekit.Parser at compile time.
var (
	_ parsekit.Parser    = (*Parser)(nil)
	_ parsekit.Describer = (*Parser)(nil)
)

// Parser extracts posts from subreddit, user and post listings.
type Parser struct {
	fetcher parsekit.Fetcher
}

// NewParser creates a Parser.
func NewParser(fetcher parsekit.Fetcher) *Parser {
	return &Parser{fetcher: fetcher}
}

// Describe implements parsekit.Describer.
func (p *Parser) Describe() parsekit.ParserInfo {
	return parsekit.ParserInfo{
		Description:    "Reddit subreddit, user and post listings",
		SupportedTypes: []string{TypeSubreddit, TypeUser, TypePost},
		Capabilities:   []string{"cursor_pagination", "post_classification"},
	}
}

// Extract fetches the listing for req and returns one item per post.
// The upstream cursor is reported as the "after" metadata key and can be
// passed back through the "after" option.
func (p *Parser) Extract(ctx context.Context, req parsekit.ParseRequest) (*parsekit.Extraction, error) {
	listingURL, err := ListingURL(req)
	if err != nil {
		return nil, err
	}

	body, err := parsekit.FetchBody(ctx, p.fetcher, listingURL, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}

	l, err := decodeListing([]byte(body))
	if err != nil {
		return nil, err
	}

	items := make([]parsekit.Item, 0, len(*l.Data.Children))
	for _, child := range *l.Data.Children {
		if child.Data == nil {
			continue
		}
		items = append(items, child.Data.item())
	}

	metadata := map[string]any{"listing_url": listingURL}
	if l.Data.After != nil {
		metadata["after"] = *l.Data.After
	}

	return &parsekit.Extraction{Items: items, Metadata: metadata}, nil
}

// ListingURL resolves req to the JSON listing URL to fetch.
func ListingURL(req parsekit.ParseRequest) (string, error) {
	source := strings.TrimSpace(req.Source)
	typ := req.EffectiveType(TypeSubreddit)

	var u *url.URL
	if parsekit.IsHTTPURL(source) {
		parsed, err := url.Parse(source)
		if err != nil {
			return "", parsekit.Errorf(parsekit.EINVALID, "invalid Reddit URL: %v", err)
		}
		u = parsed
		u.Path = strings.TrimSuffix(u.Path, "/")
		if !strings.HasSuffix(u.Path, ".json") {
			u.Path += ".json"
		}
	} else {
		name := namePrefix.ReplaceAllString(source, "")
		name = strings.Trim(name, "/")
		if name == "" {
			return "", parsekit.Errorf(parsekit.EINVALID, "subreddit or user name is required")
		}
		var path string
		switch typ {
		case TypeUser:
			path = "/user/" + name + ".json"
		case TypePost:
			return "", parsekit.Errorf(parsekit.EINVALID, "post type requires a Reddit URL")
		default:
			path = "/r/" + name + ".json"
		}
		u, _ = url.Parse(BaseURL + path)
	}

	if after := req.Option("after"); after != "" {
		q := u.Query()
		q.Set("after", after)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

type listing struct {
	Data *struct {
		After    *string  `json:"after"`
		Children *[]child `json:"children"`
	} `json:"data"`
}

type child struct {
	Data *post `json:"data"`
}

type post struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Permalink   string   `json:"permalink"`
	Selftext    string   `json:"selftext"`
	Author      string   `json:"author"`
	Subreddit   string   `json:"subreddit"`
	Score       int      `json:"score"`
	UpvoteRatio *float64 `json:"upvote_ratio"`
	Gilded      int      `json:"gilded"`
	NumComments int      `json:"num_comments"`
	CreatedUTC  *float64 `json:"created_utc"`
	IsSelf      bool     `json:"is_self"`
	Over18      bool     `json:"over_18"`
	Spoiler     bool     `json:"spoiler"`
}

// decodeListing accepts a listing object or the array of listings returned
// for a single post, in which case the first listing holds the post.
func decodeListing(body []byte) (*listing, error) {
	body = bytes.TrimSpace(body)

	var l listing
	if bytes.HasPrefix(body, []byte("[")) {
		var ls []listing
		if err := json.Unmarshal(body, &ls); err != nil {
			return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse Reddit JSON: %v", err)
		}
		if len(ls) > 0 {
			l = ls[0]
		}
	} else if err := json.Unmarshal(body, &l); err != nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse Reddit JSON: %v", err)
	}

	if l.Data == nil || l.Data.Children == nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "invalid Reddit JSON: missing data.children array")
	}
	return &l, nil
}

func (p *post) item() parsekit.Item {
	item := parsekit.Item{
		"title":        p.Title,
		"url":          p.URL,
		"permalink":    "https://reddit.com" + p.Permalink,
		"description":  p.Selftext,
		"author":       p.Author,
		"subreddit":    p.Subreddit,
		"score":        p.Score,
		"upvote_ratio": nil,
		"gilded":       p.Gilded,
		"num_comments": p.NumComments,
		"created_at":   nil,
		"type":         p.kind(),
		"nsfw":         p.Over18,
		"spoiler":      p.Spoiler,
	}
	if p.UpvoteRatio != nil {
		item["upvote_ratio"] = *p.UpvoteRatio
	}
	if p.CreatedUTC != nil {
		item["created_at"] = time.Unix(int64(*p.CreatedUTC), 0).UTC().Format(createdLayout)
	}
	return item
}

// kind classifies a post as text, video, image or link.
func (p *post) kind() string {
	if p.IsSelf {
		return "text"
	}
	switch {
	case strings.Contains(p.URL, "v.redd.it"),
		strings.Contains(p.URL, "youtube.com"),
		strings.Contains(p.URL, "youtu.be"):
		return "video"
	case strings.Contains(p.URL, "i.redd.it"),
		strings.Contains(p.URL, "i.imgur.com"),
		imageExt.MatchString(p.URL):
		return "image"
	}
	return "link"
}

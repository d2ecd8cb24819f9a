package reddit_test

import (
	"context"
	"testing"

	"github.com/fwojciec/parsekit"
	"github.com/fwojciec/parsekit/mock"
	"github.com/fwojciec/parsekit/reddit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const subredditListing = `{
  "kind": "Listing",
  "data": {
    "after": "t3_next",
    "children": [
      {"kind": "t3", "data": {
        "title": "Ask me anything",
        "url": "https://www.reddit.com/r/golang/comments/1/ask/",
        "permalink": "/r/golang/comments/1/ask/",
        "selftext": "Hello gophers",
        "author": "gopher",
        "subreddit": "golang",
        "score": 42,
        "upvote_ratio": 0.97,
        "gilded": 1,
        "num_comments": 7,
        "created_utc": 1700000000.0,
        "is_self": true,
        "over_18": false,
        "spoiler": true
      }},
      {"kind": "t3", "data": {"title": "Demo", "url": "https://v.redd.it/abc", "permalink": "/r/golang/comments/2/demo/"}},
      {"kind": "t3", "data": {"title": "Chart", "url": "https://example.com/chart.PNG", "permalink": "/r/golang/comments/3/chart/"}},
      {"kind": "t3", "data": {"title": "Blog", "url": "https://blog.test/post", "permalink": "/r/golang/comments/4/blog/"}},
      {"kind": "more"}
    ]
  }
}`

func TestParser_Extract(t *testing.T) {
	t.Parallel()

	t.Run("maps posts", func(t *testing.T) {
		t.Parallel()

		p := reddit.NewParser(mock.StaticFetcher(map[string]string{
			"https://www.reddit.com/r/golang.json": subredditListing,
		}))

		ext, err := p.Extract(context.Background(), parsekit.ParseRequest{Source: "golang"})

		require.NoError(t, err)
		require.Len(t, ext.Items, 4)
		first := ext.Items[0]
		assert.Equal(t, "Ask me anything", first["title"])
		assert.Equal(t, "https://reddit.com/r/golang/comments/1/ask/", first["permalink"])
		assert.Equal(t, "Hello gophers", first["description"])
		assert.Equal(t, "gopher", first["author"])
		assert.Equal(t, 42, first["score"])
		assert.Equal(t, 0.97, first["upvote_ratio"])
		assert.Equal(t, 7, first["num_comments"])
		assert.Equal(t, "2023-11-14 22:13:20", first["created_at"])
		assert.Equal(t, true, first["spoiler"])
		assert.Equal(t, false, first["nsfw"])
		assert.Equal(t, "t3_next", ext.Metadata["after"])
	})

	t.Run("classifies posts", func(t *testing.T) {
		t.Parallel()

		p := reddit.NewParser(mock.StaticFetcher(map[string]string{
			"https://www.reddit.com/r/golang.json": subredditListing,
		}))

		ext, err := p.Extract(context.Background(), parsekit.ParseRequest{Source: "r/golang", Type: "subreddit"})

		require.NoError(t, err)
		var kinds []any
		for _, item := range ext.Items {
			kinds = append(kinds, item["type"])
		}
		assert.Equal(t, []any{"text", "video", "image", "link"}, kinds)
		assert.Nil(t, ext.Items[1]["created_at"])
	})

	t.Run("accepts the array returned for a post", func(t *testing.T) {
		t.Parallel()

		body := `[` + subredditListing + `, {"kind": "Listing", "data": {"children": []}}]`
		p := reddit.NewParser(mock.StaticFetcher(map[string]string{
			"https://www.reddit.com/r/golang/comments/1/ask.json": body,
		}))

		ext, err := p.Extract(context.Background(), parsekit.ParseRequest{
			Source: "https://www.reddit.com/r/golang/comments/1/ask/",
			Type:   "post",
		})

		require.NoError(t, err)
		assert.Len(t, ext.Items, 4)
	})

	t.Run("missing children", func(t *testing.T) {
		t.Parallel()

		p := reddit.NewParser(mock.StaticFetcher(map[string]string{
			"https://www.reddit.com/r/golang.json": `{"data": {}}`,
		}))

		_, err := p.Extract(context.Background(), parsekit.ParseRequest{Source: "golang"})

		require.Error(t, err)
		assert.Equal(t, parsekit.EEXTRACT, parsekit.ErrorCode(err))
		assert.Equal(t, "invalid Reddit JSON: missing data.children array", parsekit.ErrorMessage(err))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()

		p := reddit.NewParser(mock.StaticFetcher(map[string]string{
			"https://www.reddit.com/r/golang.json": `<html>blocked</html>`,
		}))

		_, err := p.Extract(context.Background(), parsekit.ParseRequest{Source: "golang"})

		assert.Equal(t, parsekit.EEXTRACT, parsekit.ErrorCode(err))
	})

	t.Run("upstream error status", func(t *testing.T) {
		t.Parallel()

		p := reddit.NewParser(mock.StaticFetcher(nil))

		_, err := p.Extract(context.Background(), parsekit.ParseRequest{Source: "golang"})

		assert.Equal(t, parsekit.EFETCH, parsekit.ErrorCode(err))
	})
}

func TestListingURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  parsekit.ParseRequest
		want string
	}{
		{"bare subreddit", parsekit.ParseRequest{Source: "golang"}, "https://www.reddit.com/r/golang.json"},
		{"prefixed subreddit", parsekit.ParseRequest{Source: "/r/golang/"}, "https://www.reddit.com/r/golang.json"},
		{"user", parsekit.ParseRequest{Source: "u/spez", Type: "user"}, "https://www.reddit.com/user/spez.json"},
		{"url gains json", parsekit.ParseRequest{Source: "https://old.reddit.com/r/golang/top/?t=week"}, "https://old.reddit.com/r/golang/top.json?t=week"},
		{"json url unchanged", parsekit.ParseRequest{Source: "https://www.reddit.com/r/golang.json"}, "https://www.reddit.com/r/golang.json"},
		{"after cursor", parsekit.ParseRequest{Source: "golang", Options: map[string]any{"after": "t3_x"}}, "https://www.reddit.com/r/golang.json?after=t3_x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reddit.ListingURL(tt.req)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("post needs a URL", func(t *testing.T) {
		t.Parallel()

		_, err := reddit.ListingURL(parsekit.ParseRequest{Source: "abc", Type: "post"})

		assert.Equal(t, parsekit.EINVALID, parsekit.ErrorCode(err))
	})
}

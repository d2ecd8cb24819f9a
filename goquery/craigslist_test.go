package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/parsekit"
	"github.com/fwojciec/parsekit/goquery"
	"github.com/fwojciec/parsekit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const craigslistPage = `<html><body><ul class="rows">
<li class="result-row" data-pid="7001">
  <a class="result-image gallery" data-ids="3:abc,3:def" href="/bik/7001.html"></a>
  <time class="result-date" datetime="2024-04-02 12:00">Apr 2</time>
  <a class="result-title hdrlnk" href="/bik/7001.html">Road bike</a>
  <span class="result-meta"><span class="result-price">$300</span><span class="result-hood"> (Mission)</span></span>
</li>
<li class="result-row" data-pid="7001"><a class="result-title" href="/bik/7001.html">Road bike</a></li>
<li class="result-row" data-pid="7002">
  <a class="result-title hdrlnk" href="https://sfbay.craigslist.org/apa/7002.html">Studio</a>
  <span class="housing">1br - 400ft2</span>
</li>
</ul></body></html>`

func TestCraigslistParser_Extract(t *testing.T) {
	t.Parallel()

	p := goquery.NewCraigslistParser(
		mock.StaticFetcher(map[string]string{"https://sfbay.craigslist.org/search/sss?query=road+bike&s=0": craigslistPage}),
		goquery.NewToolkit(parsekit.ExtractionConfig{}),
	)

	ext, err := p.Extract(context.Background(), parsekit.ParseRequest{
		Source:   "https://sfbay.craigslist.org/search/sss",
		Keywords: []string{"road", "bike"},
	})

	require.NoError(t, err)
	require.Len(t, ext.Items, 2)

	bike := ext.Items[0]
	assert.Equal(t, "7001", bike["post_id"])
	assert.Equal(t, "Road bike", bike["title"])
	assert.Equal(t, "https://craigslist.org/bik/7001.html", bike["url"])
	assert.Equal(t, "$300", bike["price"])
	assert.Equal(t, "(Mission)", bike["location"])
	assert.Equal(t, "2024-04-02 12:00", bike["posted_at"])
	assert.Equal(t, true, bike["has_image"])
	assert.Equal(t, "3:abc,3:def", bike["image_ids"])
	assert.Nil(t, bike["housing"])

	studio := ext.Items[1]
	assert.Equal(t, "https://sfbay.craigslist.org/apa/7002.html", studio["url"])
	assert.Equal(t, "1br - 400ft2", studio["housing"])
	assert.Equal(t, false, studio["has_image"])
	assert.Nil(t, studio["price"])
}

func TestCraigslistSearchURL(t *testing.T) {
	t.Parallel()

	t.Run("keeps existing parameters", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.CraigslistSearchURL(parsekit.ParseRequest{
			Source:  "https://sfbay.craigslist.org/search/bia?min_price=100",
			Options: map[string]any{"s": "120"},
		})

		require.NoError(t, err)
		assert.Equal(t, "https://sfbay.craigslist.org/search/bia?min_price=100&s=120", got)
	})

	t.Run("requires a URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.CraigslistSearchURL(parsekit.ParseRequest{Source: "bikes"})

		assert.Equal(t, parsekit.EINVALID, parsekit.ErrorCode(err))
	})
}

package goquery_test

import (
	"testing"

	"github.com/fwojciec/parsekit"
	"github.com/fwojciec/parsekit/goquery"
	"github.com/stretchr/testify/assert"
)

func defaultToolkit() *goquery.Toolkit {
	return goquery.NewToolkit(parsekit.ExtractionConfig{})
}

func TestToolkit_CleanHTML(t *testing.T) {
	t.Parallel()

	t.Run("removes configured tags and attributes", func(t *testing.T) {
		t.Parallel()

		html := `<div onclick="go()"><p>Hello   <b>world</b></p><script>evil()</script><style>p{}</style><iframe src="x"></iframe><noscript>no</noscript></div>`

		got := defaultToolkit().CleanHTML(html)

		assert.Equal(t, `<div><p>Hello <b>world</b></p></div>`, got)
	})

	t.Run("keeps full documents whole", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>T</title></head><body><p onload="x()">Hi</p></body></html>`

		got := defaultToolkit().CleanHTML(html)

		assert.Contains(t, got, "<title>T</title>")
		assert.Contains(t, got, "<body><p>Hi</p></body>")
		assert.NotContains(t, got, "onload")
	})

	t.Run("tolerates malformed markup", func(t *testing.T) {
		t.Parallel()

		got := defaultToolkit().CleanHTML(`<div><p>unclosed <b>bold`)

		assert.Contains(t, got, "unclosed")
		assert.Contains(t, got, "bold")
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, defaultToolkit().CleanHTML("  "))
	})

	t.Run("uses configured tag list", func(t *testing.T) {
		t.Parallel()

		tk := goquery.NewToolkit(parsekit.ExtractionConfig{RemoveTags: []string{"aside"}})

		got := tk.CleanHTML(`<p>keep</p><aside>drop</aside>`)

		assert.Equal(t, `<p>keep</p>`, got)
	})
}

func TestToolkit_ExtractImages(t *testing.T) {
	t.Parallel()

	t.Run("harvests in selector order and resolves", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta name="twitter:image" content="//cdn.test/tw.png">
<meta property="og:image" content="/og.jpg">
</head><body>
<img src="pic.png"><img src="pic.png"><img alt="no source">
</body></html>`

		got := defaultToolkit().ExtractImages(html, "https://h.test/blog/post")

		assert.Equal(t, []string{
			"https://h.test/og.jpg",
			"https://cdn.test/tw.png",
			"https://h.test/blog/pic.png",
			"https://h.test/blog/pic.png",
		}, got)
	})

	t.Run("no images", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{}, defaultToolkit().ExtractImages("<p>text</p>", "https://h.test"))
		assert.Equal(t, []string{}, defaultToolkit().ExtractImages("", "https://h.test"))
	})
}

func TestToolkit_ExtractText(t *testing.T) {
	t.Parallel()

	t.Run("strips tags and normalizes whitespace", func(t *testing.T) {
		t.Parallel()

		html := `<h1>Title</h1><p>First
		   para</p><script>x()</script><p>Second &amp; last</p>`

		assert.Equal(t, "Title First para Second & last", defaultToolkit().ExtractText(html))
	})

	t.Run("keeps inline elements joined", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "bold move", defaultToolkit().ExtractText(`<p><b>bold</b> move</p>`))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, defaultToolkit().ExtractText(""))
	})
}

func TestToolkit_ExtractMetaTags(t *testing.T) {
	t.Parallel()

	html := `<head>
<meta charset="utf-8">
<meta property="og:title" content="OG">
<meta name="description" content="Desc">
<meta name="description" content="Other">
</head>`

	got := defaultToolkit().ExtractMetaTags(html)

	assert.Equal(t, map[string]string{"og:title": "OG", "description": "Desc"}, got)
}

func TestToolkit_ResolveLinks(t *testing.T) {
	t.Parallel()

	html := `<a href="/a">A</a><img src="img/x.png"><a href="#top">T</a><a href="mailto:me@x.test">M</a><a href="https://o.test/z">Z</a>`

	got := defaultToolkit().ResolveLinks(html, "https://h.test/dir/page")

	assert.Contains(t, got, `href="https://h.test/a"`)
	assert.Contains(t, got, `src="https://h.test/dir/img/x.png"`)
	assert.Contains(t, got, `href="#top"`)
	assert.Contains(t, got, `href="mailto:me@x.test"`)
	assert.Contains(t, got, `href="https://o.test/z"`)
}

func TestToolkit_NormalizeEncoding(t *testing.T) {
	t.Parallel()

	tk := defaultToolkit()

	assert.Equal(t, "café", tk.NormalizeEncoding([]byte("caf\xe9")))
	assert.Equal(t, "naïve ✓", tk.NormalizeEncoding([]byte("naïve ✓")))
	assert.Empty(t, tk.NormalizeEncoding(nil))
}

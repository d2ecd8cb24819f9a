package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/parsekit"
	"github.com/fwojciec/parsekit/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsPage = `<!DOCTYPE html>
<html>
<head>
<title>City council approves budget - Daily Planet</title>
<meta property="og:title" content="City council approves budget">
<meta name="author" content="Lois Lane">
</head>
<body>
<nav class="site-nav"><a href="/">Home</a><a href="/news">News</a><a href="/sport">Sport</a></nav>
<article>
<h1>City council approves budget</h1>
<p>The city council approved the annual budget on Tuesday after a long debate about road repairs.</p>
<p>Council members said the plan keeps property taxes flat while funding two new libraries.</p>
</article>
<footer><p>Copyright 2024 Daily Planet</p></footer>
</body>
</html>`

func TestExtractor_ExtractArticle(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and main content", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		article, err := ext.ExtractArticle(newsPage, "https://planet.test/news/budget")

		require.NoError(t, err)
		assert.NotEmpty(t, article.Title)
		assert.Contains(t, article.ContentHTML, "approved the annual budget")
		assert.Contains(t, article.ContentHTML, "two new libraries")
	})

	t.Run("removes boilerplate", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		article, err := ext.ExtractArticle(newsPage, "https://planet.test/news/budget")

		require.NoError(t, err)
		assert.NotContains(t, article.ContentHTML, "site-nav")
		assert.NotContains(t, article.ContentHTML, "Copyright 2024 Daily Planet")
	})

	t.Run("tolerates a missing page URL", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		article, err := ext.ExtractArticle(newsPage, "")

		require.NoError(t, err)
		assert.Contains(t, article.ContentHTML, "approved the annual budget")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.ExtractArticle("  ", "https://planet.test")

		require.Error(t, err)
		assert.Equal(t, parsekit.EEXTRACT, parsekit.ErrorCode(err))
	})
}

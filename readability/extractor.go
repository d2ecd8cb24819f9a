package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/parsekit"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements parsekit.ArticleExtractor at compile time.
var _ parsekit.ArticleExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractArticle processes raw HTML and returns the main content.
func (e *Extractor) ExtractArticle(rawHTML, pageURL string) (*parsekit.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "empty HTML input")
	}

	var page *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		page = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), page)
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "no main content found: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "no main content found")
	}

	return &parsekit.Article{
		Title:       article.Title,
		Byline:      article.Byline,
		Excerpt:     article.Excerpt,
		SiteName:    article.SiteName,
		Image:       article.Image,
		ContentHTML: article.Content,
	}, nil
}

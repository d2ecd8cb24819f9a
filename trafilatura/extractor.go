package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/parsekit"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements parsekit.ArticleExtractor at compile time.
var _ parsekit.ArticleExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the main article out of a page.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "no main content found: %v", err)
	}
	if result.ContentNode == nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "no main content found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "rendering content: %v", err)
	}

	return &parsekit.Article{
		Title:       result.Metadata.Title,
		Byline:      result.Metadata.Author,
		Excerpt:     result.Metadata.Description,
		SiteName:    result.Metadata.Sitename,
		Image:       result.Metadata.Image,
		ContentHTML: contentHTML,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

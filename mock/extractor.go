package mock

import "github.com/fwojciec/parsekit"

var _ parsekit.ArticleExtractor = (*ArticleExtractor)(nil)

// ArticleExtractor is a mock implementation of parsekit.ArticleExtractor.
type ArticleExtractor struct {
	ExtractArticleFn func(html, pageURL string) (*parsekit.Article, error)
}

func (e *ArticleExtractor) ExtractArticle(html, pageURL string) (*parsekit.Article, error) {
	return e.ExtractArticleFn(html, pageURL)
}

var _ parsekit.XPathSelector = (*XPathSelector)(nil)

// XPathSelector is a mock implementation of parsekit.XPathSelector.
type XPathSelector struct {
	SelectHTMLFn   func(html, expr string) ([]string, error)
	SelectValuesFn func(html, expr string) ([]string, error)
}

func (s *XPathSelector) SelectHTML(html, expr string) ([]string, error) {
	return s.SelectHTMLFn(html, expr)
}

func (s *XPathSelector) SelectValues(html, expr string) ([]string, error) {
	return s.SelectValuesFn(html, expr)
}

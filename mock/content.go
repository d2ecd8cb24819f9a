package mock

import "github.com/fwojciec/parsekit"

var _ parsekit.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of parsekit.ContentExtractor.
type ContentExtractor struct {
	CleanHTMLFn         func(html string) string
	ExtractImagesFn     func(html, baseURL string) []string
	ExtractTextFn       func(html string) string
	ExtractMetaTagsFn   func(html string) map[string]string
	ResolveLinksFn      func(html, baseURL string) string
	NormalizeEncodingFn func(content []byte) string
}

func (c *ContentExtractor) CleanHTML(html string) string {
	return c.CleanHTMLFn(html)
}

func (c *ContentExtractor) ExtractImages(html, baseURL string) []string {
	return c.ExtractImagesFn(html, baseURL)
}

func (c *ContentExtractor) ExtractText(html string) string {
	return c.ExtractTextFn(html)
}

func (c *ContentExtractor) ExtractMetaTags(html string) map[string]string {
	return c.ExtractMetaTagsFn(html)
}

func (c *ContentExtractor) ResolveLinks(html, baseURL string) string {
	return c.ResolveLinksFn(html, baseURL)
}

func (c *ContentExtractor) NormalizeEncoding(content []byte) string {
	return c.NormalizeEncodingFn(content)
}

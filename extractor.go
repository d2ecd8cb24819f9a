package parsekit

// Article holds the main content of an HTML page with boilerplate removed.
type Article struct {
	Title    string
	Byline   string
	Excerpt  string
	SiteName string
	Image    string

	// ContentHTML is the main content as clean HTML.
	// Navigation, footers, sidebars and ads have been removed.
	ContentHTML string
}

// ArticleExtractor finds the main content of an HTML page.
type ArticleExtractor interface {
	// ExtractArticle processes raw HTML fetched from pageURL.
	// Returns EEXTRACT when no main content can be identified.
	ExtractArticle(html, pageURL string) (*Article, error)
}

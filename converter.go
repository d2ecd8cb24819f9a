package parsekit

// Converter renders HTML as Markdown.
type Converter interface {
	// Convert transforms html into Markdown, resolving relative links
	// against pageURL when it is not empty.
	Convert(html, pageURL string) (string, error)
}

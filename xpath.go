package parsekit

// XPathSelector evaluates XPath expressions over HTML documents.
type XPathSelector interface {
	// SelectHTML returns the outer HTML of every node matching expr.
	// Returns EINVALID for a malformed expression.
	SelectHTML(html, expr string) ([]string, error)

	// SelectValues returns the text value of every node matching expr.
	// Attribute expressions (//a/@href) yield attribute values.
	SelectValues(html, expr string) ([]string, error)
}

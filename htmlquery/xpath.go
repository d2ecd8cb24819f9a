// Package htmlquery evaluates XPath expressions over HTML using
// antchfx/htmlquery.
package htmlquery

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/fwojciec/parsekit"
	"golang.org/x/net/html"
)

// Ensure Selector implements parsekit.XPathSelector at compile time.
var _ parsekit.XPathSelector = (*Selector)(nil)

// Selector implements parsekit.XPathSelector.
type Selector struct{}

// NewSelector creates a new Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// SelectHTML returns the outer HTML of every node matching expr.
func (s *Selector) SelectHTML(content, expr string) ([]string, error) {
	nodes, err := query(content, expr)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, htmlquery.OutputHTML(n, true))
	}
	return out, nil
}

// SelectValues returns the trimmed text of every matching node, skipping
// empty values.
func (s *Selector) SelectValues(content, expr string) ([]string, error) {
	nodes, err := query(content, expr)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if v := strings.TrimSpace(htmlquery.InnerText(n)); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func query(content, expr string) ([]*html.Node, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, parsekit.Errorf(parsekit.EINVALID, "xpath expression is required")
	}
	doc, err := htmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EEXTRACT, "failed to parse HTML: %v", err)
	}
	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil, parsekit.Errorf(parsekit.EINVALID, "invalid xpath expression %q: %v", expr, err)
	}
	return nodes, nil
}

package parsekit

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Feed formats understood by DetectFeedFormat.
const (
	FeedRSS  = "rss"
	FeedAtom = "atom"
	FeedJSON = "json"
)

const atomNamespace = "http://www.w3.org/2005/Atom"

// rootElement captures the name of the first element after the XML prolog,
// comments and doctype.
var rootElement = regexp.MustCompile(`(?is)^(?:\s+|<\?.*?\?>|<!--.*?-->|<!DOCTYPE[^>]*>)*<([a-z_][\w.:-]*)`)

// DetectFeedFormat decides how content should be parsed.
//
// A requested type naming a known format always wins. Otherwise a JSON
// object with an "items" array is a JSON feed, a document declaring the Atom
// namespace with a <feed> root is Atom, and anything else is treated as RSS.
func DetectFeedFormat(content, requestedType string) string {
	switch t := strings.ToLower(strings.TrimSpace(requestedType)); t {
	case FeedRSS, FeedAtom, FeedJSON:
		return t
	}

	trimmed := strings.TrimSpace(strings.TrimPrefix(content, "\ufeff"))
	if strings.HasPrefix(trimmed, "{") && hasItemsArray(trimmed) {
		return FeedJSON
	}
	if strings.Contains(content, atomNamespace) && isFeedRoot(trimmed) {
		return FeedAtom
	}
	return FeedRSS
}

// isFeedRoot reports whether the document element is <feed>, with or
// without a namespace prefix.
func isFeedRoot(s string) bool {
	m := rootElement.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	name := m[1]
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	return strings.EqualFold(name, "feed")
}

// hasItemsArray reports whether s is a JSON object with an "items" array.
func hasItemsArray(s string) bool {
	var probe struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(string(probe.Items)), "[")
}

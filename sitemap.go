package parsekit

import (
	"context"
	"regexp"
)

// SitemapService discovers page URLs of a site from its sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the URLs listed in the sitemaps of siteURL.
	// Sitemap locations come from robots.txt, falling back to /sitemap.xml;
	// sitemap indexes are followed recursively. When siteURL has a path,
	// only URLs under that path are returned. A nil filter keeps everything.
	DiscoverURLs(ctx context.Context, siteURL string, filter *URLFilter) ([]string, error)
}

// URLFilter keeps URLs matching any Include pattern and no Exclude pattern.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns.
// Returns EINVALID if a pattern does not compile.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	f := &URLFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match reports whether rawURL passes the filter. A nil filter matches all.
func (f *URLFilter) Match(rawURL string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, rawURL) {
		return false
	}
	return !matchAny(f.Exclude, rawURL)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

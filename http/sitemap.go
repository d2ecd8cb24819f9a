package http

import (
	"bufio"
	"context"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/parsekit"
)

// maxSitemapDepth bounds how deep sitemap indexes are followed.
const maxSitemapDepth = 3

// Ensure SitemapService implements parsekit.SitemapService.
var _ parsekit.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from robots.txt and sitemap XML.
// Requests go through a parsekit.Fetcher, so they share its retry policy,
// user-agent rotation and host pacing.
type SitemapService struct {
	fetcher parsekit.Fetcher
}

// NewSitemapService creates a new SitemapService.
func NewSitemapService(fetcher parsekit.Fetcher) *SitemapService {
	return &SitemapService{fetcher: fetcher}
}

// DiscoverURLs returns the URLs listed in the sitemaps of siteURL, in
// sitemap order without duplicates. Returns an empty slice when the site has
// no sitemap.
func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *parsekit.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, parsekit.Errorf(parsekit.ECANCELED, "sitemap discovery canceled: %v", err)
	}

	base, err := url.Parse(siteURL)
	if err != nil || base.Host == "" {
		return nil, parsekit.Errorf(parsekit.EINVALID, "invalid site URL %q", siteURL)
	}

	prefix := strings.TrimSuffix(base.Path, "/")
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.locateSitemaps(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{service: s, seen: make(map[string]bool)}
	for _, loc := range sitemaps {
		if err := w.visit(ctx, loc, 0); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(w.urls))
	for _, u := range w.urls {
		if prefix != "" && !underPath(u, prefix) {
			continue
		}
		if filter.Match(u) {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// locateSitemaps reads Sitemap: directives from robots.txt and falls back to
// /sitemap.xml when there are none.
func (s *SitemapService) locateSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	resp, err := s.fetcher.Get(ctx, robots, nil)
	if err != nil && parsekit.ErrorCode(err) == parsekit.ECANCELED {
		return nil, err
	}

	var sitemaps []string
	if err == nil && resp.OK() {
		scanner := bufio.NewScanner(strings.NewReader(string(resp.Body)))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if len(line) > 8 && strings.EqualFold(line[:8], "sitemap:") {
				if loc := strings.TrimSpace(line[8:]); loc != "" {
					sitemaps = append(sitemaps, loc)
				}
			}
		}
	}

	if len(sitemaps) == 0 {
		sitemaps = append(sitemaps, root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String())
	}
	return sitemaps, nil
}

// sitemapWalk collects page URLs across a tree of sitemaps.
type sitemapWalk struct {
	service *SitemapService
	seen    map[string]bool
	urls    []string
	pages   map[string]bool
}

func (w *sitemapWalk) visit(ctx context.Context, loc string, depth int) error {
	if w.seen[loc] || depth > maxSitemapDepth {
		return nil
	}
	w.seen[loc] = true

	resp, err := w.service.fetcher.Get(ctx, loc, nil)
	if err != nil {
		if parsekit.ErrorCode(err) == parsekit.ECANCELED {
			return err
		}
		return nil
	}
	if !resp.OK() {
		return nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(resp.Body); err != nil {
		return parsekit.Errorf(parsekit.EEXTRACT, "invalid sitemap XML at %s: %v", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return parsekit.Errorf(parsekit.EEXTRACT, "empty sitemap XML at %s", loc)
	}

	if root.Tag == "sitemapindex" {
		for _, child := range locations(root, "sitemap") {
			if err := w.visit(ctx, child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if w.pages == nil {
		w.pages = make(map[string]bool)
	}
	for _, page := range locations(root, "url") {
		if !w.pages[page] {
			w.pages[page] = true
			w.urls = append(w.urls, page)
		}
	}
	return nil
}

// locations returns the <loc> text of each child element named tag.
func locations(root *etree.Element, tag string) []string {
	var locs []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if text := strings.TrimSpace(loc.Text()); text != "" {
				locs = append(locs, text)
			}
		}
	}
	return locs
}

// underPath reports whether rawURL's path is prefix or below it.
func underPath(rawURL, prefix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}

package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/parsekit"
	parsekithttp "github.com/fwojciec/parsekit/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSitemapService() *parsekithttp.SitemapService {
	return parsekithttp.NewSitemapService(parsekithttp.NewFetcher(
		parsekithttp.WithMaxAttempts(1),
		parsekithttp.WithBackoff(time.Millisecond, 2),
	))
}

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("reads sitemap from robots.txt", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt": "User-agent: *\nDisallow: /private/\nSitemap: {{BASE}}/custom.xml\n",
			"/custom.xml": urlset("{{BASE}}/docs/intro", "{{BASE}}/docs/guide"),
		})

		urls, err := newSitemapService().DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/guide"}, urls)
	})

	t.Run("falls back to sitemap.xml", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset("{{BASE}}/page1"),
		})

		urls, err := newSitemapService().DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/page1"}, urls)
	})

	t.Run("follows sitemap indexes and removes duplicates", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/a.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/b.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/a.xml</loc></sitemap>
</sitemapindex>`,
			"/a.xml": urlset("{{BASE}}/docs/intro", "{{BASE}}/shared"),
			"/b.xml": urlset("{{BASE}}/api/ref", "{{BASE}}/shared"),
		})

		urls, err := newSitemapService().DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/shared", srv.URL + "/api/ref"}, urls)
	})

	t.Run("keeps only URLs under the site path", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset("{{BASE}}/docs", "{{BASE}}/docs/a", "{{BASE}}/documentation", "{{BASE}}/blog"),
		})

		urls, err := newSitemapService().DiscoverURLs(context.Background(), srv.URL+"/docs/", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs", srv.URL + "/docs/a"}, urls)
	})

	t.Run("applies the URL filter", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset("{{BASE}}/blog/one", "{{BASE}}/blog/drafts/two", "{{BASE}}/about"),
		})
		filter, err := parsekit.NewURLFilter([]string{"/blog/"}, []string{"/drafts/"})
		require.NoError(t, err)

		urls, err := newSitemapService().DiscoverURLs(context.Background(), srv.URL, filter)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/blog/one"}, urls)
	})

	t.Run("returns empty list without sitemap", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})

		urls, err := newSitemapService().DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	})

	t.Run("reports malformed sitemap XML", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": "this is not xml",
		})

		_, err := newSitemapService().DiscoverURLs(context.Background(), srv.URL, nil)

		require.Error(t, err)
		assert.Equal(t, parsekit.EEXTRACT, parsekit.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{"/sitemap.xml": urlset("{{BASE}}/a")})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newSitemapService().DiscoverURLs(ctx, srv.URL, nil)

		require.Error(t, err)
		assert.Equal(t, parsekit.ECANCELED, parsekit.ErrorCode(err))
	})

	t.Run("rejects invalid site URL", func(t *testing.T) {
		t.Parallel()

		_, err := newSitemapService().DiscoverURLs(context.Background(), "not a url", nil)

		require.Error(t, err)
		assert.Equal(t, parsekit.EINVALID, parsekit.ErrorCode(err))
	})
}

func urlset(locs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, loc := range locs {
		b.WriteString("  <url><loc>" + loc + "</loc></url>\n")
	}
	b.WriteString("</urlset>")
	return b.String()
}

func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{BASE}}", srv.URL)))
	}))
	t.Cleanup(srv.Close)

	return srv
}

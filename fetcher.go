package parsekit

import (
	"context"
	"strings"
)

// Response is the outcome of a single logical GET.
type Response struct {
	// URL is the requested URL.
	URL string

	StatusCode int

	// Header holds response headers with canonical keys.
	Header map[string]string

	Body []byte
}

// OK reports whether the response has a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ContentType returns the Content-Type header, if any.
func (r *Response) ContentType() string {
	return r.Header["Content-Type"]
}

// Fetcher performs HTTP GETs with retry, backoff and user-agent rotation.
type Fetcher interface {
	// Get retrieves url. Header entries override the fetcher's defaults.
	//
	// Non-retryable error statuses (e.g. 404) are returned as a normal
	// response; the caller decides whether the status is acceptable.
	// An error is returned only when retries are exhausted, the transport
	// fails terminally or ctx is done.
	Get(ctx context.Context, url string, header map[string]string) (*Response, error)
}

// FetchBody retrieves url and returns its body as text.
// A non-2xx status is reported as an EFETCH error.
func FetchBody(ctx context.Context, f Fetcher, url string, header map[string]string) (string, error) {
	resp, err := f.Get(ctx, url, header)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", Errorf(EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}
	return string(resp.Body), nil
}

// IsHTTPURL reports whether s looks like an absolute http(s) URL.
func IsHTTPURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

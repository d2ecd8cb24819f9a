// Package http implements the outbound side of parsekit over net/http
// (a resilient Fetcher and a SitemapService) and the inbound JSON API.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fwojciec/parsekit"
)

// Fetcher defaults.
const (
	DefaultFetchTimeout      = 20 * time.Second
	DefaultMaxAttempts       = 3
	DefaultBackoffBaseDelay  = time.Second
	DefaultBackoffMultiplier = 2.0
)

// MaxBodySize caps how much of a response body is read.
const MaxBodySize = 20 << 20

// maxBackoffInterval bounds a single backoff sleep.
const maxBackoffInterval = 5 * time.Minute

// Ensure Fetcher implements parsekit.Fetcher at compile time.
var _ parsekit.Fetcher = (*Fetcher)(nil)

// RetryFunc is notified before each backoff sleep. Attempt is the number of
// attempts made so far.
type RetryFunc func(url string, attempt int, delay time.Duration, cause error)

// Fetcher performs GET requests with retry, exponential backoff and
// round-robin user-agent rotation. The rotation cursor is its only mutable
// state, so a single Fetcher is shared by all strategies.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxAttempts int
	baseDelay   time.Duration
	multiplier  float64
	retryable   map[int]bool
	userAgents  []string
	headers     map[string]string
	pacer       parsekit.HostPacer
	onRetry     RetryFunc

	cursor atomic.Uint64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout of a single HTTP attempt.
// Defaults to DefaultFetchTimeout (20s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxAttempts sets the total number of attempts per Get, including the first.
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		f.maxAttempts = max(n, 1)
	}
}

// WithBackoff sets the sleep before retry n to base * multiplier^n.
func WithBackoff(base time.Duration, multiplier float64) Option {
	return func(f *Fetcher) {
		f.baseDelay = base
		f.multiplier = multiplier
	}
}

// WithRetryableStatuses replaces the set of statuses that trigger a retry.
func WithRetryableStatuses(statuses ...int) Option {
	return func(f *Fetcher) {
		f.retryable = make(map[int]bool, len(statuses))
		for _, s := range statuses {
			f.retryable[s] = true
		}
	}
}

// WithUserAgents replaces the user-agent rotation pool. An empty pool is ignored.
func WithUserAgents(agents []string) Option {
	return func(f *Fetcher) {
		if len(agents) > 0 {
			f.userAgents = append([]string(nil), agents...)
		}
	}
}

// WithDefaultHeaders sets headers sent with every request.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = make(map[string]string, len(headers))
		for k, v := range headers {
			f.headers[http.CanonicalHeaderKey(k)] = v
		}
	}
}

// WithHostPacer makes every attempt wait for the pacer first.
func WithHostPacer(p parsekit.HostPacer) Option {
	return func(f *Fetcher) {
		f.pacer = p
	}
}

// WithRetryObserver registers a function called before each backoff sleep.
func WithRetryObserver(fn RetryFunc) Option {
	return func(f *Fetcher) {
		f.onRetry = fn
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBackoffBaseDelay,
		multiplier:  DefaultBackoffMultiplier,
		userAgents:  parsekit.DefaultUserAgents,
	}
	WithRetryableStatuses(parsekit.DefaultRetryableStatuses...)(f)
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Get retrieves rawURL. Retryable statuses and transport failures are retried
// with exponential backoff; any other status is returned as is.
func (f *Fetcher) Get(ctx context.Context, rawURL string, header map[string]string) (*parsekit.Response, error) {
	target, err := url.Parse(rawURL)
	if err != nil || target.Host == "" || (target.Scheme != "http" && target.Scheme != "https") {
		return nil, parsekit.Errorf(parsekit.EINVALID, "invalid URL %q", rawURL)
	}

	headers := f.requestHeaders(header)
	b := f.newBackOff()

	for attempt := 1; ; attempt++ {
		resp, err := f.do(ctx, target, headers)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, canceled(rawURL, ctxErr)
		}

		var cause error
		switch {
		case err != nil:
			cause = err
		case f.retryable[resp.StatusCode]:
			cause = fmt.Errorf("HTTP %d", resp.StatusCode)
		default:
			return resp, nil
		}

		if attempt >= f.maxAttempts {
			return nil, parsekit.Errorf(parsekit.EFETCH, "fetching %s failed after %d attempts: %v", rawURL, attempt, cause)
		}

		delay := b.NextBackOff()
		if f.onRetry != nil {
			f.onRetry(rawURL, attempt, delay, cause)
		}
		if err := sleep(ctx, delay); err != nil {
			return nil, canceled(rawURL, err)
		}
	}
}

// requestHeaders merges defaults, the next user agent and caller overrides.
func (f *Fetcher) requestHeaders(override map[string]string) map[string]string {
	headers := make(map[string]string, len(f.headers)+len(override)+1)
	for k, v := range f.headers {
		headers[k] = v
	}
	headers["User-Agent"] = f.nextUserAgent()
	for k, v := range override {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	return headers
}

func (f *Fetcher) nextUserAgent() string {
	n := f.cursor.Add(1) - 1
	return f.userAgents[n%uint64(len(f.userAgents))]
}

// newBackOff returns a deterministic schedule of base * multiplier^n.
func (f *Fetcher) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.baseDelay
	b.Multiplier = f.multiplier
	b.RandomizationFactor = 0
	b.MaxInterval = maxBackoffInterval
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// do performs a single attempt.
func (f *Fetcher) do(ctx context.Context, target *url.URL, headers map[string]string) (*parsekit.Response, error) {
	if f.pacer != nil {
		if err := f.pacer.Wait(ctx, target.Host); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	header := make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		if len(v) > 0 {
			header[k] = v[0]
		}
	}

	return &parsekit.Response{
		URL:        target.String(),
		StatusCode: resp.StatusCode,
		Header:     header,
		Body:       body,
	}, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func canceled(rawURL string, err error) error {
	return parsekit.Errorf(parsekit.ECANCELED, "fetching %s canceled: %v", rawURL, err)
}

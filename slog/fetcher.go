package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/parsekit"
)

// Ensure LoggingFetcher implements parsekit.Fetcher.
var _ parsekit.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging of every logical GET.
type LoggingFetcher struct {
	next   parsekit.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next parsekit.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Get delegates to the wrapped fetcher and logs status, size and duration.
func (f *LoggingFetcher) Get(ctx context.Context, url string, header map[string]string) (resp *parsekit.Response, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin)}
		if resp != nil {
			attrs = append(attrs, "status", resp.StatusCode, "bytes", len(resp.Body))
		}
		f.logger.Log(ctx, level(err), "fetch", append(attrs, errorAttrs(err)...)...)
	}(time.Now())
	return f.next.Get(ctx, url, header)
}

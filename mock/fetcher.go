package mock

import (
	"context"

	"github.com/fwojciec/parsekit"
)

var _ parsekit.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of parsekit.Fetcher.
type Fetcher struct {
	GetFn func(ctx context.Context, url string, header map[string]string) (*parsekit.Response, error)
}

func (f *Fetcher) Get(ctx context.Context, url string, header map[string]string) (*parsekit.Response, error) {
	return f.GetFn(ctx, url, header)
}

// StaticFetcher returns a Fetcher serving fixed bodies by URL with status 200.
// Unknown URLs get a 404 response.
func StaticFetcher(pages map[string]string) *Fetcher {
	return &Fetcher{
		GetFn: func(ctx context.Context, url string, header map[string]string) (*parsekit.Response, error) {
			if err := ctx.Err(); err != nil {
				return nil, parsekit.Errorf(parsekit.ECANCELED, "fetching %s canceled: %v", url, err)
			}
			body, ok := pages[url]
			if !ok {
				return &parsekit.Response{URL: url, StatusCode: 404, Header: map[string]string{}}, nil
			}
			return &parsekit.Response{URL: url, StatusCode: 200, Header: map[string]string{}, Body: []byte(body)}, nil
		},
	}
}

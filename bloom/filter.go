// Package bloom deduplicates discovered URLs with Bloom filters.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate keeps accidental drops rare for link lists of a
// few thousand entries.
const DefaultFalsePositiveRate = 0.0001

// Filter remembers URLs it has seen. It is not safe for concurrent use.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen reports whether url was offered before and records it.
// False positives are possible; false negatives are not.
func (f *Filter) Seen(rawURL string) bool {
	return f.f.TestAndAddString(Normalize(rawURL))
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Dedup returns urls without repeats, keeping first occurrences in order.
// The filter only screens candidates: a positive is confirmed against the
// exact keys seen so far, so a false positive never drops a distinct URL.
func Dedup(urls []string) []string {
	f := NewFilter(uint(len(urls)), DefaultFalsePositiveRate)
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		key := Normalize(u)
		if f.f.TestAndAddString(key) {
			if _, ok := seen[key]; ok {
				continue
			}
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}

// Normalize maps equivalent spellings of a URL to one key: the scheme and
// host are lowercased and the fragment is dropped.
func Normalize(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

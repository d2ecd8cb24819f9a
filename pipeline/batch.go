package pipeline

import (
	"context"
	"time"

	"github.com/fwojciec/parsekit"
	"golang.org/x/sync/errgroup"
)

// Batch defaults.
const (
	DefaultBatchConcurrency = 10
	DefaultItemTimeout      = 30 * time.Second
)

// Ensure Batch implements parsekit.BatchService at compile time.
var _ parsekit.BatchService = (*Batch)(nil)

// Batch runs many requests against a ParseService concurrently. Each item
// gets its own deadline, so a slow or failing item never cancels siblings.
type Batch struct {
	Service     parsekit.ParseService
	Concurrency int
	ItemTimeout time.Duration
}

// ExecuteBatch runs reqs and returns their results in request order.
func (b *Batch) ExecuteBatch(ctx context.Context, reqs []parsekit.BatchRequest) (*parsekit.BatchResult, error) {
	if len(reqs) == 0 {
		return nil, parsekit.Errorf(parsekit.EINVALID, "batch must contain at least one request")
	}
	if len(reqs) > parsekit.MaxBatchSize {
		return nil, parsekit.Errorf(parsekit.EINVALID, "batch must not contain more than %d requests", parsekit.MaxBatchSize)
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]parsekit.BatchItemResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = b.executeOne(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	summary := parsekit.BatchSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	return &parsekit.BatchResult{Results: results, Summary: summary}, nil
}

func (b *Batch) executeOne(ctx context.Context, req parsekit.BatchRequest) parsekit.BatchItemResult {
	timeout := b.ItemTimeout
	if timeout <= 0 {
		timeout = DefaultItemTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	item := parsekit.BatchItemResult{Parser: NormalizeName(req.Parser)}

	result, err := b.Service.Execute(ctx, req.Parser, req.ParseRequest)
	if err != nil {
		item.Error = parsekit.ErrorMessage(err)
		item.Code = parsekit.ErrorCode(err)
		return item
	}
	if !result.Success {
		item.Error = result.Error
		item.Code = result.Code
		item.RetryAfter = result.RetryAfter
		return item
	}

	item.Success = true
	item.Data = result
	return item
}

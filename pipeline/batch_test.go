package pipeline_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/parsekit"
	"github.com/fwojciec/parsekit/mock"
	"github.com/fwojciec/parsekit/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_ExecuteBatch(t *testing.T) {
	t.Parallel()

	t.Run("keeps request order and summarizes outcomes", func(t *testing.T) {
		t.Parallel()

		svc := &mock.ParseService{
			ExecuteFn: func(ctx context.Context, parser string, req parsekit.ParseRequest) (*parsekit.ParseResult, error) {
				switch parser {
				case "missing":
					return nil, parsekit.Errorf(parsekit.ENOTFOUND, "parser [missing] is not registered")
				case "limited":
					return parsekit.NewFailureResult(parsekit.RateLimitedf(12*time.Second, "rate limit exceeded for parser [limited]"), nil), nil
				}
				// Later items finish first.
				if req.Source == "a" {
					time.Sleep(20 * time.Millisecond)
				}
				return parsekit.NewSuccessResult([]parsekit.Item{{"source": req.Source}}, nil, 1, nil), nil
			},
		}
		b := &pipeline.Batch{Service: svc}

		res, err := b.ExecuteBatch(context.Background(), []parsekit.BatchRequest{
			{Parser: "Feeds", ParseRequest: parsekit.ParseRequest{Source: "a"}},
			{Parser: "missing", ParseRequest: parsekit.ParseRequest{Source: "b"}},
			{Parser: "feeds", ParseRequest: parsekit.ParseRequest{Source: "c"}},
			{Parser: "limited", ParseRequest: parsekit.ParseRequest{Source: "d"}},
		})

		require.NoError(t, err)
		require.Len(t, res.Results, 4)
		assert.Equal(t, parsekit.BatchSummary{Total: 4, Successful: 2, Failed: 2}, res.Summary)

		first := res.Results[0]
		assert.True(t, first.Success)
		assert.Equal(t, "feeds", first.Parser)
		require.NotNil(t, first.Data)
		assert.Equal(t, "a", first.Data.Items[0]["source"])

		missing := res.Results[1]
		assert.False(t, missing.Success)
		assert.Nil(t, missing.Data)
		assert.Equal(t, parsekit.ENOTFOUND, missing.Code)
		assert.Equal(t, "parser [missing] is not registered", missing.Error)

		assert.Equal(t, "c", res.Results[2].Data.Items[0]["source"])

		limited := res.Results[3]
		assert.False(t, limited.Success)
		assert.Equal(t, parsekit.ERATELIMITED, limited.Code)
		assert.Equal(t, 12, limited.RetryAfter)
	})

	t.Run("rejects empty batches", func(t *testing.T) {
		t.Parallel()

		b := &pipeline.Batch{Service: &mock.ParseService{}}

		_, err := b.ExecuteBatch(context.Background(), nil)

		assert.Equal(t, parsekit.EINVALID, parsekit.ErrorCode(err))
	})

	t.Run("rejects oversized batches", func(t *testing.T) {
		t.Parallel()

		b := &pipeline.Batch{Service: &mock.ParseService{}}
		reqs := make([]parsekit.BatchRequest, parsekit.MaxBatchSize+1)

		_, err := b.ExecuteBatch(context.Background(), reqs)

		assert.Equal(t, parsekit.EINVALID, parsekit.ErrorCode(err))
	})

	t.Run("bounds concurrency", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		svc := &mock.ParseService{
			ExecuteFn: func(ctx context.Context, parser string, req parsekit.ParseRequest) (*parsekit.ParseResult, error) {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				running.Add(-1)
				return parsekit.NewSuccessResult(nil, nil, 0, nil), nil
			},
		}
		b := &pipeline.Batch{Service: svc, Concurrency: 2}
		reqs := make([]parsekit.BatchRequest, 10)
		for i := range reqs {
			reqs[i] = parsekit.BatchRequest{Parser: "feeds", ParseRequest: parsekit.ParseRequest{Source: "x"}}
		}

		res, err := b.ExecuteBatch(context.Background(), reqs)

		require.NoError(t, err)
		assert.Equal(t, 10, res.Summary.Successful)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("applies a deadline to each item", func(t *testing.T) {
		t.Parallel()

		svc := &mock.ParseService{
			ExecuteFn: func(ctx context.Context, parser string, req parsekit.ParseRequest) (*parsekit.ParseResult, error) {
				if req.Source == "slow" {
					<-ctx.Done()
					return parsekit.NewFailureResult(parsekit.Errorf(parsekit.ECANCELED, "parse canceled: %v", ctx.Err()), nil), nil
				}
				return parsekit.NewSuccessResult(nil, nil, 0, nil), nil
			},
		}
		b := &pipeline.Batch{Service: svc, ItemTimeout: 20 * time.Millisecond}

		res, err := b.ExecuteBatch(context.Background(), []parsekit.BatchRequest{
			{Parser: "p", ParseRequest: parsekit.ParseRequest{Source: "slow"}},
			{Parser: "p", ParseRequest: parsekit.ParseRequest{Source: "fast"}},
		})

		require.NoError(t, err)
		assert.Equal(t, parsekit.ECANCELED, res.Results[0].Code)
		assert.True(t, res.Results[1].Success)
	})

	t.Run("runs through a real pipeline", func(t *testing.T) {
		t.Parallel()

		r := pipeline.NewRegistry()
		r.MustRegister("feeds", itemsParser(3))
		b := &pipeline.Batch{Service: &pipeline.Pipeline{Registry: r}}

		res, err := b.ExecuteBatch(context.Background(), []parsekit.BatchRequest{
			{Parser: "feeds", ParseRequest: parsekit.ParseRequest{Source: "x", Limit: 2}},
			{Parser: "feeds", ParseRequest: parsekit.ParseRequest{}},
		})

		require.NoError(t, err)
		assert.Equal(t, 3, res.Results[0].Data.Total)
		assert.Len(t, res.Results[0].Data.Items, 2)
		assert.Equal(t, parsekit.EINVALID, res.Results[1].Code)
		assert.Equal(t, parsekit.BatchSummary{Total: 2, Successful: 1, Failed: 1}, res.Summary)
	})
}

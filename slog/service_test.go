package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/parsekit"
	"github.com/fwojciec/parsekit/mock"
	pkslog "github.com/fwojciec/parsekit/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingService_Execute(t *testing.T) {
	t.Parallel()

	t.Run("logs successful execution", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ParseService{
			ExecuteFn: func(ctx context.Context, parser string, req parsekit.ParseRequest) (*parsekit.ParseResult, error) {
				return parsekit.NewSuccessResult([]parsekit.Item{{}, {}}, nil, 5, nil), nil
			},
		}

		svc := pkslog.NewLoggingService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		result, err := svc.Execute(context.Background(), "reddit", parsekit.ParseRequest{Source: "golang"})

		require.NoError(t, err)
		assert.True(t, result.Success)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "msg=parse")
		assert.Contains(t, output, "parser=reddit")
		assert.Contains(t, output, "success=true")
		assert.Contains(t, output, "items=2")
		assert.Contains(t, output, "total=5")
	})

	t.Run("logs failed result as warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ParseService{
			ExecuteFn: func(ctx context.Context, parser string, req parsekit.ParseRequest) (*parsekit.ParseResult, error) {
				return parsekit.NewFailureResult(parsekit.Errorf(parsekit.EFETCH, "HTTP 503 for x"), nil), nil
			},
		}

		svc := pkslog.NewLoggingService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		result, err := svc.Execute(context.Background(), "reddit", parsekit.ParseRequest{Source: "golang"})

		require.NoError(t, err)
		assert.False(t, result.Success)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "code=fetch")
		assert.Contains(t, output, `error="HTTP 503 for x"`)
	})

	t.Run("logs hard error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ParseService{
			ExecuteFn: func(ctx context.Context, parser string, req parsekit.ParseRequest) (*parsekit.ParseResult, error) {
				return nil, parsekit.Errorf(parsekit.ENOTFOUND, "parser %q not found", parser)
			},
		}

		svc := pkslog.NewLoggingService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := svc.Execute(context.Background(), "nope", parsekit.ParseRequest{Source: "x"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "code=not_found")
	})

	t.Run("delegates listing", func(t *testing.T) {
		t.Parallel()

		inner := &mock.ParseService{
			ParsersFn: func() []parsekit.ParserInfo { return []parsekit.ParserInfo{{Name: "feeds"}} },
			ParserFn: func(name string) (*parsekit.ParserInfo, error) {
				return &parsekit.ParserInfo{Name: name}, nil
			},
		}

		svc := pkslog.NewLoggingService(inner, slog.Default())
		info, err := svc.Parser("feeds")

		require.NoError(t, err)
		assert.Equal(t, "feeds", info.Name)
		assert.Len(t, svc.Parsers(), 1)
	})
}

func TestLoggingBatchService_ExecuteBatch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.BatchService{
		ExecuteBatchFn: func(ctx context.Context, reqs []parsekit.BatchRequest) (*parsekit.BatchResult, error) {
			return &parsekit.BatchResult{Summary: parsekit.BatchSummary{Total: 2, Successful: 1, Failed: 1}}, nil
		},
	}

	svc := pkslog.NewLoggingBatchService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
	_, err := svc.ExecuteBatch(context.Background(), make([]parsekit.BatchRequest, 2))

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "msg=batch")
	assert.Contains(t, output, "requests=2")
	assert.Contains(t, output, "successful=1")
	assert.Contains(t, output, "failed=1")
}

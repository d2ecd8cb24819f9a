package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/parsekit"
)

// Ensure services implement their interfaces.
var (
	_ parsekit.ParseService = (*LoggingService)(nil)
	_ parsekit.BatchService = (*LoggingBatchService)(nil)
)

// LoggingService wraps a ParseService with one log line per execution.
type LoggingService struct {
	next   parsekit.ParseService
	logger *slog.Logger
}

// NewLoggingService creates a new LoggingService.
func NewLoggingService(next parsekit.ParseService, logger *slog.Logger) *LoggingService {
	return &LoggingService{next: next, logger: logger}
}

// Execute delegates to the wrapped service and logs the outcome. Failed
// results are logged as warnings even though they are not errors.
func (s *LoggingService) Execute(ctx context.Context, parser string, req parsekit.ParseRequest) (result *parsekit.ParseResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"parser", parser,
			"source", req.Source,
			"duration", time.Since(begin),
		}
		lvl := level(err)
		if result != nil {
			attrs = append(attrs, "success", result.Success, "items", len(result.Items), "total", result.Total)
			if !result.Success {
				lvl = slog.LevelWarn
				attrs = append(attrs, "code", result.Code, "error", result.Error)
			}
		}
		s.logger.Log(ctx, lvl, "parse", append(attrs, errorAttrs(err)...)...)
	}(time.Now())
	return s.next.Execute(ctx, parser, req)
}

// Parsers delegates to the wrapped service.
func (s *LoggingService) Parsers() []parsekit.ParserInfo {
	return s.next.Parsers()
}

// Parser delegates to the wrapped service.
func (s *LoggingService) Parser(name string) (*parsekit.ParserInfo, error) {
	return s.next.Parser(name)
}

// LoggingBatchService wraps a BatchService with a summary log line.
type LoggingBatchService struct {
	next   parsekit.BatchService
	logger *slog.Logger
}

// NewLoggingBatchService creates a new LoggingBatchService.
func NewLoggingBatchService(next parsekit.BatchService, logger *slog.Logger) *LoggingBatchService {
	return &LoggingBatchService{next: next, logger: logger}
}

// ExecuteBatch delegates to the wrapped service and logs the summary.
func (s *LoggingBatchService) ExecuteBatch(ctx context.Context, reqs []parsekit.BatchRequest) (result *parsekit.BatchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"requests", len(reqs), "duration", time.Since(begin)}
		if result != nil {
			attrs = append(attrs,
				"successful", result.Summary.Successful,
				"failed", result.Summary.Failed,
			)
		}
		s.logger.Log(ctx, level(err), "batch", append(attrs, errorAttrs(err)...)...)
	}(time.Now())
	return s.next.ExecuteBatch(ctx, reqs)
}

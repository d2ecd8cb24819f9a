package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/parsekit"
)

// Ensure LoggingParser implements parsekit.Parser and parsekit.Describer.
var (
	_ parsekit.Parser    = (*LoggingParser)(nil)
	_ parsekit.Describer = (*LoggingParser)(nil)
)

// LoggingParser wraps a single strategy with debug logging of its raw
// extraction, before pagination.
type LoggingParser struct {
	name   string
	next   parsekit.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser for the strategy registered
// under name.
func NewLoggingParser(name string, next parsekit.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{name: name, next: next, logger: logger}
}

// Extract delegates to the wrapped strategy and logs the extracted count.
func (p *LoggingParser) Extract(ctx context.Context, req parsekit.ParseRequest) (ext *parsekit.Extraction, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"parser", p.name,
			"source", req.Source,
			"type", req.EffectiveType(parsekit.DefaultType),
			"duration", time.Since(begin),
		}
		if ext != nil {
			attrs = append(attrs, "extracted", len(ext.Items))
		}
		p.logger.Log(ctx, slog.LevelDebug, "extract", append(attrs, errorAttrs(err)...)...)
	}(time.Now())
	return p.next.Extract(ctx, req)
}

// Describe returns the wrapped strategy's description, if it has one.
func (p *LoggingParser) Describe() parsekit.ParserInfo {
	if d, ok := p.next.(parsekit.Describer); ok {
		return d.Describe()
	}
	return parsekit.ParserInfo{}
}

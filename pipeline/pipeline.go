package pipeline

import (
	"context"
	"errors"

	"github.com/fwojciec/parsekit"
	"github.com/google/uuid"
)

// Ensure Pipeline implements parsekit.ParseService at compile time.
var _ parsekit.ParseService = (*Pipeline)(nil)

// Pipeline executes strategies from a Registry. Every execution runs
// validate, admit, extract, paginate and annotate in that order and stops at
// the first failure. Failures become failed results; only an unknown
// strategy name is returned as an error.
type Pipeline struct {
	Registry *Registry

	// RateLimiter gates executions per strategy name. Nil disables admission.
	RateLimiter parsekit.RateLimiter
	RateLimits  parsekit.RateLimitPolicy

	// NewRequestID returns the id recorded in result metadata.
	// Defaults to a random UUID.
	NewRequestID func() string
}

// Execute resolves name and runs the strategy.
// Returns ENOTFOUND if name is not registered.
func (p *Pipeline) Execute(ctx context.Context, name string, req parsekit.ParseRequest) (*parsekit.ParseResult, error) {
	parser, err := p.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, NormalizeName(name), parser, req), nil
}

// Run executes an already resolved strategy registered under name.
func (p *Pipeline) Run(ctx context.Context, name string, parser parsekit.Parser, req parsekit.ParseRequest) *parsekit.ParseResult {
	base := map[string]any{
		"parser":     name,
		"source":     req.Source,
		"type":       req.EffectiveType(parsekit.DefaultType),
		"request_id": p.requestID(),
	}

	if err := req.Validate(); err != nil {
		return parsekit.NewFailureResult(err, base)
	}

	if err := ctx.Err(); err != nil {
		return parsekit.NewFailureResult(classify(ctx, err), base)
	}

	if p.RateLimiter != nil {
		limit := p.RateLimits.For(name)
		if !p.RateLimiter.Admit(name, limit) {
			retryAfter := p.RateLimiter.AvailableIn(name, limit)
			return parsekit.NewFailureResult(parsekit.RateLimitedf(retryAfter, "rate limit exceeded for parser [%s]", name), base)
		}
	}

	ext, err := parser.Extract(ctx, req)
	if err != nil {
		return parsekit.NewFailureResult(classify(ctx, err), base)
	}
	if ext == nil {
		ext = &parsekit.Extraction{}
	}

	page, next := Paginate(ext.Items, req.Offset, req.Limit)

	metadata := make(map[string]any, len(ext.Metadata)+len(base))
	for k, v := range ext.Metadata {
		metadata[k] = v
	}
	for k, v := range base {
		metadata[k] = v
	}

	return parsekit.NewSuccessResult(page, metadata, len(ext.Items), next)
}

// Parsers describes every registered strategy in registration order.
func (p *Pipeline) Parsers() []parsekit.ParserInfo {
	names := p.Registry.Names()
	infos := make([]parsekit.ParserInfo, 0, len(names))
	for _, name := range names {
		if info, err := p.Parser(name); err == nil {
			infos = append(infos, *info)
		}
	}
	return infos
}

// Parser describes the strategy registered under name.
// Returns ENOTFOUND if name is not registered.
func (p *Pipeline) Parser(name string) (*parsekit.ParserInfo, error) {
	parser, err := p.Registry.Get(name)
	if err != nil {
		return nil, err
	}

	var info parsekit.ParserInfo
	if d, ok := parser.(parsekit.Describer); ok {
		info = d.Describe()
	}
	info.Name = NormalizeName(name)
	info.RateLimit = p.RateLimits.For(info.Name)
	if info.SupportedTypes == nil {
		info.SupportedTypes = []string{}
	}
	if info.Capabilities == nil {
		info.Capabilities = []string{}
	}
	return &info, nil
}

func (p *Pipeline) requestID() string {
	if p.NewRequestID != nil {
		return p.NewRequestID()
	}
	return uuid.NewString()
}

// classify maps an extraction error onto the error taxonomy. Cancellation
// wins over whatever the strategy reported; plain errors from third-party
// code are extraction failures.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if parsekit.ErrorCode(err) == parsekit.ECANCELED {
			return err
		}
		cause := ctx.Err()
		if cause == nil {
			cause = err
		}
		return parsekit.Errorf(parsekit.ECANCELED, "parse canceled: %v", cause)
	}
	if parsekit.ErrorCode(err) == parsekit.EINTERNAL {
		return parsekit.Errorf(parsekit.EEXTRACT, "%v", err)
	}
	return err
}

package mock

import (
	"context"

	"github.com/fwojciec/parsekit"
)

var _ parsekit.Parser = (*Parser)(nil)
var _ parsekit.Describer = (*Parser)(nil)

// Parser is a mock implementation of parsekit.Parser.
type Parser struct {
	ExtractFn  func(ctx context.Context, req parsekit.ParseRequest) (*parsekit.Extraction, error)
	DescribeFn func() parsekit.ParserInfo
}

func (p *Parser) Extract(ctx context.Context, req parsekit.ParseRequest) (*parsekit.Extraction, error) {
	return p.ExtractFn(ctx, req)
}

func (p *Parser) Describe() parsekit.ParserInfo {
	if p.DescribeFn == nil {
		return parsekit.ParserInfo{}
	}
	return p.DescribeFn()
}

var _ parsekit.ParseService = (*ParseService)(nil)

// ParseService is a mock implementation of parsekit.ParseService.
type ParseService struct {
	ExecuteFn func(ctx context.Context, parser string, req parsekit.ParseRequest) (*parsekit.ParseResult, error)
	ParsersFn func() []parsekit.ParserInfo
	ParserFn  func(name string) (*parsekit.ParserInfo, error)
}

func (s *ParseService) Execute(ctx context.Context, parser string, req parsekit.ParseRequest) (*parsekit.ParseResult, error) {
	return s.ExecuteFn(ctx, parser, req)
}

func (s *ParseService) Parsers() []parsekit.ParserInfo {
	return s.ParsersFn()
}

func (s *ParseService) Parser(name string) (*parsekit.ParserInfo, error) {
	return s.ParserFn(name)
}

var _ parsekit.BatchService = (*BatchService)(nil)

// BatchService is a mock implementation of parsekit.BatchService.
type BatchService struct {
	ExecuteBatchFn func(ctx context.Context, reqs []parsekit.BatchRequest) (*parsekit.BatchResult, error)
}

func (s *BatchService) ExecuteBatch(ctx context.Context, reqs []parsekit.BatchRequest) (*parsekit.BatchResult, error) {
	return s.ExecuteBatchFn(ctx, reqs)
}

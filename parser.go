package parsekit

import "context"

// Extraction is the raw output of a strategy before pagination.
type Extraction struct {
	// Items in extraction order.
	Items []Item

	// Metadata holds strategy-specific diagnostics such as a detected
	// sub-format or an upstream pagination cursor.
	Metadata map[string]any
}

// Parser is one pluggable extraction strategy. Implementations must be safe
// for concurrent use and must not keep per-request state.
type Parser interface {
	// Extract fetches the request source and returns normalized items.
	Extract(ctx context.Context, req ParseRequest) (*Extraction, error)
}

// ParserInfo describes a registered strategy.
type ParserInfo struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	SupportedTypes []string  `json:"supported_types"`
	Capabilities   []string  `json:"capabilities"`
	RateLimit      RateLimit `json:"rate_limit"`
}

// Describer is implemented by strategies that can describe themselves.
type Describer interface {
	Describe() ParserInfo
}

// ParseService executes parse requests against named strategies.
type ParseService interface {
	// Execute runs the named strategy. Failures inside the execution are
	// reported on the result; only an unknown strategy returns an error.
	Execute(ctx context.Context, parser string, req ParseRequest) (*ParseResult, error)

	// Parsers lists registered strategies in registration order.
	Parsers() []ParserInfo

	// Parser describes a single strategy.
	// Returns ENOTFOUND if the name is not registered.
	Parser(name string) (*ParserInfo, error)
}

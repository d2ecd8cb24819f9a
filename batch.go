package parsekit

import "context"

// MaxBatchSize is the largest number of requests accepted in one batch.
const MaxBatchSize = 100

// BatchRequest is one element of a batch: a strategy name plus its request.
type BatchRequest struct {
	Parser string `json:"parser"`
	ParseRequest
}

// BatchItemResult is the outcome of one batch element. Data is set on
// success; Error, Code and RetryAfter describe a failure.
type BatchItemResult struct {
	Parser     string       `json:"parser"`
	Success    bool         `json:"success"`
	Data       *ParseResult `json:"data"`
	Error      string       `json:"error,omitempty"`
	Code       string       `json:"code,omitempty"`
	RetryAfter int          `json:"retry_after,omitempty"`
}

// BatchSummary counts the outcomes of a batch.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchResult holds per-item results in request order.
type BatchResult struct {
	Results []BatchItemResult `json:"results"`
	Summary BatchSummary      `json:"summary"`
}

// BatchService executes many parse requests independently.
type BatchService interface {
	// ExecuteBatch runs every request and reports each outcome separately.
	// One item's failure never affects its siblings. Returns EINVALID when
	// the batch is empty or larger than MaxBatchSize.
	ExecuteBatch(ctx context.Context, reqs []BatchRequest) (*BatchResult, error)
}

package parsekit

import (
	"errors"
	"time"
)

// Item is one normalized record produced by a strategy.
type Item map[string]any

// ParseResult is the uniform outcome of a pipeline execution.
type ParseResult struct {
	Success bool   `json:"success"`
	Items   []Item `json:"items"`

	// Error is the human-readable failure message. Empty on success.
	Error string `json:"error,omitempty"`

	// Code is the machine-readable failure class. Empty on success.
	Code string `json:"code,omitempty"`

	// RetryAfter is the number of seconds a rate-limited caller should wait.
	RetryAfter int `json:"retry_after,omitempty"`

	Metadata map[string]any `json:"metadata"`

	// Total is the number of extracted items before pagination.
	Total int `json:"total"`

	// NextOffset is the offset of the following page, or nil when exhausted.
	NextOffset *int `json:"next_offset"`
}

// NewSuccessResult returns a successful result.
func NewSuccessResult(items []Item, metadata map[string]any, total int, nextOffset *int) *ParseResult {
	if items == nil {
		items = []Item{}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &ParseResult{
		Success:    true,
		Items:      items,
		Metadata:   metadata,
		Total:      total,
		NextOffset: nextOffset,
	}
}

// NewFailureResult returns a failed result describing err.
// A failed result never carries items, a total or a next offset.
func NewFailureResult(err error, metadata map[string]any) *ParseResult {
	if metadata == nil {
		metadata = map[string]any{}
	}
	if err == nil {
		err = Errorf(EINTERNAL, "unknown error")
	}
	msg := err.Error()
	var e *Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	r := &ParseResult{
		Success:  false,
		Items:    []Item{},
		Error:    msg,
		Code:     ErrorCode(err),
		Metadata: metadata,
	}
	if d := ErrorRetryAfter(err); d > 0 {
		r.RetryAfter = int((d + time.Second - 1) / time.Second)
	}
	return r
}

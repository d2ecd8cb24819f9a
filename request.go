package parsekit

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxLimit is the largest page size a request may ask for.
const MaxLimit = 1000

// DefaultType is the effective type of a request that does not name one.
const DefaultType = "auto"

// ParseRequest describes one extraction: where to read from and how much of
// the result the caller wants back. It is treated as immutable once built.
type ParseRequest struct {
	// Source is the locator handed to the strategy (URL, channel name, query).
	Source string `json:"source"`

	// Type selects a strategy sub-mode such as a feed format or extraction mode.
	Type string `json:"type,omitempty"`

	Keywords []string          `json:"keywords,omitempty"`
	Options  map[string]any    `json:"options,omitempty"`
	Filters  map[string]string `json:"filters,omitempty"`

	// Limit caps the number of returned items. Zero means no limit.
	Limit int `json:"limit,omitempty"`

	// Offset is the index of the first returned item.
	Offset int `json:"offset,omitempty"`
}

// Validate returns an EINVALID error if the request cannot be executed.
func (r *ParseRequest) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return Errorf(EINVALID, "source is required")
	}
	if r.Limit < 0 {
		return Errorf(EINVALID, "limit must be positive")
	}
	if r.Limit > MaxLimit {
		return Errorf(EINVALID, "limit must not exceed %d", MaxLimit)
	}
	if r.Offset < 0 {
		return Errorf(EINVALID, "offset must not be negative")
	}
	return nil
}

// EffectiveType returns the request type, or def when none was given.
func (r *ParseRequest) EffectiveType(def string) string {
	if t := strings.ToLower(strings.TrimSpace(r.Type)); t != "" {
		return t
	}
	return def
}

// Option returns a strategy option rendered as a string.
// Missing options return the empty string.
func (r *ParseRequest) Option(key string) string {
	v, ok := r.Options[key]
	if !ok || v == nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// BoolOption reports whether a strategy option is set to a truthy value.
func (r *ParseRequest) BoolOption(key string) bool {
	v, ok := r.Options[key]
	if !ok {
		return false
	}
	switch v := v.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

// IntOption returns a positive integer option, or def when it is missing or invalid.
func (r *ParseRequest) IntOption(key string, def int) int {
	n, err := strconv.Atoi(r.Option(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

package parsekit_test

import (
	"testing"

	"github.com/fwojciec/parsekit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     parsekit.ParseRequest
		wantErr string
	}{
		{name: "valid", req: parsekit.ParseRequest{Source: "https://example.com"}},
		{name: "valid with pagination", req: parsekit.ParseRequest{Source: "x", Limit: 10, Offset: 5}},
		{name: "empty source", req: parsekit.ParseRequest{}, wantErr: "source is required"},
		{name: "blank source", req: parsekit.ParseRequest{Source: "   "}, wantErr: "source is required"},
		{name: "negative limit", req: parsekit.ParseRequest{Source: "x", Limit: -1}, wantErr: "limit must be positive"},
		{name: "limit too large", req: parsekit.ParseRequest{Source: "x", Limit: 1001}, wantErr: "limit must not exceed 1000"},
		{name: "negative offset", req: parsekit.ParseRequest{Source: "x", Offset: -1}, wantErr: "offset must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, parsekit.EINVALID, parsekit.ErrorCode(err))
			assert.Equal(t, tt.wantErr, parsekit.ErrorMessage(err))
		})
	}
}

func TestParseRequest_EffectiveType(t *testing.T) {
	t.Parallel()

	req := parsekit.ParseRequest{Type: " RSS "}
	assert.Equal(t, "rss", req.EffectiveType("auto"))

	req = parsekit.ParseRequest{}
	assert.Equal(t, "auto", req.EffectiveType("auto"))
}

func TestParseRequest_Options(t *testing.T) {
	t.Parallel()

	req := parsekit.ParseRequest{Options: map[string]any{
		"selector":    "div.post",
		"clean_html":  true,
		"markdown":    "true",
		"max_urls":    float64(7),
		"concurrency": "zero",
	}}

	assert.Equal(t, "div.post", req.Option("selector"))
	assert.Equal(t, "7", req.Option("max_urls"))
	assert.Empty(t, req.Option("missing"))
	assert.True(t, req.BoolOption("clean_html"))
	assert.True(t, req.BoolOption("markdown"))
	assert.False(t, req.BoolOption("missing"))
	assert.Equal(t, 7, req.IntOption("max_urls", 50))
	assert.Equal(t, 5, req.IntOption("concurrency", 5))
	assert.Equal(t, 3, req.IntOption("missing", 3))
}

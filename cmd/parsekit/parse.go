package main

import (
	"encoding/json"
	"io"

	"github.com/fwojciec/parsekit"
)

// Run executes the parse command. The result is printed even when it
// failed; a failed result also returns its error.
func (c *ParseCmd) Run(deps *Dependencies) error {
	req := parsekit.ParseRequest{
		Source:   c.Source,
		Type:     c.Type,
		Keywords: c.Keyword,
		Filters:  c.Filter,
		Limit:    c.Limit,
		Offset:   c.Offset,
	}
	if len(c.Option) > 0 {
		req.Options = make(map[string]any, len(c.Option))
		for k, v := range c.Option {
			req.Options[k] = v
		}
	}

	result, err := deps.Parse.Execute(deps.Ctx, c.Parser, req)
	if err != nil {
		return err
	}
	if err := writeJSON(deps.Stdout, result); err != nil {
		return err
	}
	if !result.Success {
		return &parsekit.Error{Code: result.Code, Message: result.Error}
	}
	return nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

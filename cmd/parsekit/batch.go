package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/fwojciec/parsekit"
)

// Run executes the batch command. Per-item failures are reported in the
// output and do not fail the command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	var r io.Reader = deps.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return parsekit.Errorf(parsekit.EINVALID, "open batch file: %v", err)
		}
		defer f.Close()
		r = f
	}

	var reqs []parsekit.BatchRequest
	if err := json.NewDecoder(r).Decode(&reqs); err != nil {
		return parsekit.Errorf(parsekit.EINVALID, "invalid batch JSON: %v", err)
	}

	result, err := deps.Batch.ExecuteBatch(deps.Ctx, reqs)
	if err != nil {
		return err
	}
	return writeJSON(deps.Stdout, result)
}

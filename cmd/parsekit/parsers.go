package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/parsekit"
)

// Run executes the parsers command.
func (c *ParsersCmd) Run(deps *Dependencies) error {
	parsers := deps.Parse.Parsers()
	if len(parsers) == 0 {
		fmt.Fprintln(deps.Stdout, "No parsers enabled. Check the parsers section of the configuration.")
		return nil
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPES\tLIMITS\tDESCRIPTION")
	for _, p := range parsers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, strings.Join(p.SupportedTypes, ","), formatLimit(p.RateLimit), p.Description)
	}
	return tw.Flush()
}

// formatLimit renders both windows, e.g. "60/1m0s 600/1h0m0s".
func formatLimit(l parsekit.RateLimit) string {
	var parts []string
	if l.ShortLimit > 0 {
		parts = append(parts, fmt.Sprintf("%d/%s", l.ShortLimit, l.ShortWindow))
	}
	if l.LongLimit > 0 {
		parts = append(parts, fmt.Sprintf("%d/%s", l.LongLimit, l.LongWindow))
	}
	if len(parts) == 0 {
		return "unlimited"
	}
	return strings.Join(parts, " ")
}

package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/parsekit"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *parsekit.Config
	Logger  *slog.Logger
	Parse   parsekit.ParseService
	Batch   parsekit.BatchService
	Version string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `short:"c" type:"path" env:"PARSEKIT_CONFIG" help:"YAML configuration file"`
	LogLevel string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)"`

	Parse   ParseCmd   `cmd:"" help:"Run one parser against a source"`
	Batch   BatchCmd   `cmd:"" help:"Run a JSON array of parse requests"`
	Parsers ParsersCmd `cmd:"" help:"List registered parsers and their rate limits"`
	Serve   ServeCmd   `cmd:"" help:"Serve the JSON API"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	Parser  string            `arg:"" help:"Parser name (feeds, reddit, single_page, ...)"`
	Source  string            `arg:"" help:"URL, channel, subreddit or query"`
	Type    string            `short:"t" help:"Parser sub-type"`
	Limit   int               `short:"l" help:"Maximum number of items"`
	Offset  int               `short:"o" help:"Index of the first item"`
	Keyword []string          `short:"k" help:"Search keyword (repeatable)"`
	Option  map[string]string `short:"O" help:"Parser option key=value (repeatable)"`
	Filter  map[string]string `short:"f" help:"Filter key=value (repeatable)"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File string `arg:"" optional:"" default:"-" help:"JSON file with an array of requests, or - for stdin"`
}

// ParsersCmd is the "parsers" subcommand.
type ParsersCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `short:"a" help:"Bind address (overrides server.addr)"`
}

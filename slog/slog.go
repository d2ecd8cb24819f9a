// Package slog decorates parsekit services with structured logging.
package slog

import (
	"log/slog"

	"github.com/fwojciec/parsekit"
)

// errorAttrs returns the attributes describing err, or nothing for nil.
func errorAttrs(err error) []any {
	if err == nil {
		return nil
	}
	return []any{"code", parsekit.ErrorCode(err), "err", err}
}

// level picks Warn for failed operations and Info otherwise.
func level(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

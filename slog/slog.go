// Package slog decorates mepdir services with structured logging.
package slog

import (
	"context"
	"errors"
	"log/slog"
)

// level returns Warn for failed operations and Debug otherwise.
func level(err error) slog.Level {
	if err != nil && !errors.Is(err, context.Canceled) {
		return slog.LevelWarn
	}
	return slog.LevelDebug
}

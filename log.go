package main

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/mcncl/jsonlayer/internal/config"
)

// newLogger creates a logger with timestamp formatting that writes to w and
// filters messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel picks the level from the dev settings: debug, then verbose,
// otherwise warnings only so stderr stays quiet in pipelines.
func logLevel(cfg *config.Config) log.Level {
	switch {
	case cfg.Dev.Debug:
		return log.DebugLevel
	case cfg.Dev.Verbose:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logger returns the logger attached to the command context.
func (c *Context) logger() *log.Logger {
	if c.Context == nil {
		return log.Default()
	}
	return loggerFromContext(c.Context)
}

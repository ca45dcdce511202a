// Package diag is the CLI binaries' operational logger: a registerable
// slog.Handler that defaults to a no-op, so abx2xml and xml2abx stay silent
// unless a caller opts in. It is unrelated to Config.Warn, which reports
// per-document diagnostics to library callers; diag is for the two command
// binaries' own tracing.
package diag

import (
	"context"
	"log/slog"
)

var logger = slog.New(noOp{})

// RegisterLogger replaces the package's log handler. The default is a no-op.
func RegisterLogger(h slog.Handler) {
	logger = slog.New(h)
}

// Log writes msg at level through the registered handler.
func Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	logger.Log(ctx, level, msg, args...)
}

type noOp struct{}

func (noOp) Enabled(context.Context, slog.Level) bool  { return false }
func (noOp) Handle(context.Context, slog.Record) error { return nil }
func (h noOp) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h noOp) WithGroup(string) slog.Handler           { return h }

// Copyright 2026 The gocycles Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapHandler is a slog.Handler that forwards every record to an
// underlying zap.Logger, so cycles.SetLogger (slog-based, used by every
// sub-package) and the CLI's own zap-based operational logging
// (grounded on the teacher's internal/infra/logger) write through the
// same sink instead of needing two independently-configured loggers.
type zapHandler struct {
	l     *zap.Logger
	attrs []zap.Field
}

// newLogBridge wraps l as a slog.Logger for cycles.SetLogger.
func newLogBridge(l *zap.Logger) *slog.Logger {
	return slog.New(&zapHandler{l: l})
}

func (h *zapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.l.Core().Enabled(toZapLevel(level))
}

func (h *zapHandler) Handle(_ context.Context, rec slog.Record) error {
	fields := make([]zap.Field, 0, rec.NumAttrs()+len(h.attrs))
	fields = append(fields, h.attrs...)
	rec.Attrs(func(a slog.Attr) bool {
		fields = append(fields, zap.Any(a.Key, a.Value.Any()))
		return true
	})
	if ce := h.l.Check(toZapLevel(rec.Level), rec.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (h *zapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]zap.Field, 0, len(attrs)+len(h.attrs))
	fields = append(fields, h.attrs...)
	for _, a := range attrs {
		fields = append(fields, zap.Any(a.Key, a.Value.Any()))
	}
	return &zapHandler{l: h.l, attrs: fields}
}

func (h *zapHandler) WithGroup(name string) slog.Handler {
	return &zapHandler{l: h.l.Named(name), attrs: h.attrs}
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

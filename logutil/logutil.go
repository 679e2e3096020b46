// Package logutil baut den slog-Logger der retro-Werkzeuge.
//
// Dieses Modul enthaelt:
// - NewLogger: Text-Handler mit Quelldatei (nur Basename) und TRACE-Level
// - Trace/TraceContext: Logging unterhalb von DEBUG
// - RankZero: loggt nur auf dem ersten Pipeline-Rang
package logutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// LevelTrace liegt unterhalb von DEBUG und wird via RETRO_DEBUG=2 aktiviert
const LevelTrace slog.Level = -8

// NewLogger erstellt einen Text-Logger fuer w mit dem angegebenen Level
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				if lvl, ok := attr.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					attr.Value = slog.StringValue("TRACE")
				}
			case slog.SourceKey:
				if source, ok := attr.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return attr
		},
	}))
}

// Trace loggt msg auf TRACE-Level ueber den Default-Logger
func Trace(msg string, args ...any) {
	logAt(context.Background(), slog.Default(), LevelTrace, msg, args...)
}

// TraceContext wie Trace, mit Context
func TraceContext(ctx context.Context, msg string, args ...any) {
	logAt(ctx, slog.Default(), LevelTrace, msg, args...)
}

// RankZero loggt msg auf INFO, aber nur wenn rank == 0.
// Alle anderen Pipeline-Raenge bleiben still.
func RankZero(rank int, msg string, args ...any) {
	if rank != 0 {
		return
	}
	logAt(context.Background(), slog.Default(), slog.LevelInfo, msg, args...)
}

// logAt setzt die Quelle auf den Aufrufer des oeffentlichen Helpers
func logAt(ctx context.Context, l *slog.Logger, level slog.Level, msg string, args ...any) {
	if !l.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	// runtime.Callers, logAt, Trace/RankZero
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

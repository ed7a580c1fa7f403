package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// callerSkip skips runtime.Callers, Handle and the slog.Logger frame.
const callerSkip = 3

type conditionalSourceHandler struct {
	next   slog.Handler
	levels map[slog.Level]struct{}
}

// NewConditionalSourceHandler wraps next so that records at the listed levels
// carry a source attribute. The wrapped handler must have AddSource disabled.
//
//	handler := NewConditionalSourceHandler(
//	    tint.NewHandler(os.Stdout, opts),
//	    slog.LevelWarn,
//	    slog.LevelError,
//	)
func NewConditionalSourceHandler(next slog.Handler, levels ...slog.Level) slog.Handler {
	set := make(map[slog.Level]struct{}, len(levels))
	for _, l := range levels {
		set[l] = struct{}{}
	}
	return &conditionalSourceHandler{next: next, levels: set}
}

func (h *conditionalSourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if _, ok := h.levels[r.Level]; ok {
		var pcs [1]uintptr
		runtime.Callers(callerSkip, pcs[:])
		f, _ := runtime.CallersFrames(pcs[:]).Next()

		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		}))
	}
	return h.next.Handle(ctx, r)
}

func (h *conditionalSourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &conditionalSourceHandler{next: h.next.WithAttrs(attrs), levels: h.levels}
}

func (h *conditionalSourceHandler) WithGroup(name string) slog.Handler {
	return &conditionalSourceHandler{next: h.next.WithGroup(name), levels: h.levels}
}

func (h *conditionalSourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

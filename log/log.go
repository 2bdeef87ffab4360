// Package log routes all loggers used by this module through a single
// swappable slog.Handler. Logging is silent until the embedding application
// installs a real handler with To, so the library never writes to stderr on
// its own.
package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

const (
	ComponentKey = "component"
	ErrorKey     = "error"
)

// Error returns a slog.Attr holding the provided error under ErrorKey.
func Error(e error) slog.Attr {
	return slog.Any(ErrorKey, e)
}

// indirectHandler forwards to whatever handler was most recently installed via
// To. Loggers constructed before To is called pick up the new handler on their
// next log call.
type indirectHandler struct {
	h atomic.Pointer[slog.Handler]
}

func (i *indirectHandler) Enabled(ctx context.Context, level slog.Level) bool {
	h := i.h.Load()
	if h == nil {
		return false
	}

	return (*h).Enabled(ctx, level)
}

func (i *indirectHandler) Handle(ctx context.Context, record slog.Record) error {
	h := i.h.Load()
	if h == nil {
		return nil
	}

	return (*h).Handle(ctx, record)
}

func (i *indirectHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h := i.h.Load()
	if h == nil {
		return i
	}

	return (*h).WithAttrs(attrs)
}

func (i *indirectHandler) WithGroup(name string) slog.Handler {
	h := i.h.Load()
	if h == nil {
		return i
	}

	return (*h).WithGroup(name)
}

var _ slog.Handler = &indirectHandler{}

var sink = &indirectHandler{}

// To installs the slog.Handler that all library loggers write to.
func To(h slog.Handler) {
	sink.h.Store(&h)
}

// ForComponent constructs a slog.Logger tagged with the specified component
// name under ComponentKey.
func ForComponent(component string) *slog.Logger {
	return slog.New(sink).With(slog.String(ComponentKey, component))
}

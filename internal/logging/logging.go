// Package logging adapts log/slog to the viewer's pluggable logger model: any
// number of handlers can be attached at runtime and every record is delivered
// to all of them.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Fanout is a slog.Handler that forwards each record to every attached
// handler. It is safe for concurrent use. With no handlers attached it
// discards everything.
type Fanout struct {
	mu       *sync.RWMutex
	handlers *[]slog.Handler
	// ops replays WithAttrs/WithGroup calls, in order, onto each handler.
	ops []func(slog.Handler) slog.Handler
}

func NewFanout() *Fanout {
	return &Fanout{mu: &sync.RWMutex{}, handlers: new([]slog.Handler)}
}

// Add attaches h. Loggers derived with WithAttrs/WithGroup see it too.
func (f *Fanout) Add(h slog.Handler) {
	if h == nil {
		return
	}
	f.mu.Lock()
	*f.handlers = append(*f.handlers, h)
	f.mu.Unlock()
}

func (f *Fanout) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(*f.handlers)
}

func (f *Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, h := range *f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *Fanout) Handle(ctx context.Context, r slog.Record) error {
	f.mu.RLock()
	hs := make([]slog.Handler, len(*f.handlers))
	copy(hs, *f.handlers)
	f.mu.RUnlock()

	var firstErr error
	for _, h := range hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		h = f.derive(h)
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return f
	}
	return f.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *Fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *Fanout) with(op func(slog.Handler) slog.Handler) *Fanout {
	nf := *f
	nf.ops = append(append([]func(slog.Handler) slog.Handler{}, f.ops...), op)
	return &nf
}

func (f *Fanout) derive(h slog.Handler) slog.Handler {
	for _, op := range f.ops {
		h = op(h)
	}
	return h
}

// Callback is the shape of a plain message sink.
type Callback func(message string)

// CallbackHandler formats records as "LEVEL: message key=value ..." and
// passes each line to a Callback.
type CallbackHandler struct {
	fn    Callback
	level slog.Leveler
	attrs []slog.Attr
}

func NewCallbackHandler(fn Callback, level slog.Leveler) *CallbackHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CallbackHandler{fn: fn, level: level}
}

func (h *CallbackHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CallbackHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", r.Level, r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s", a)
		return true
	})
	h.fn(b.String())
	return nil
}

func (h *CallbackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

// WithGroup is a no-op; callback lines are flat.
func (h *CallbackHandler) WithGroup(string) slog.Handler { return h }

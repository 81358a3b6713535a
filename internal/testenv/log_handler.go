// Package testenv holds test helpers shared across packages.
package testenv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// LogHandler is a slog.Handler that records each message as "[index] LEVEL: msg
// k=v, k=v" without a timestamp, so log output can be asserted on. Handlers derived
// with WithAttrs or WithGroup share the record of their parent.
type LogHandler struct {
	rec    *recorder
	attrs  []slog.Attr
	prefix string
	level  slog.Level
}

type recorder struct {
	mu    sync.Mutex
	lines []string
	out   io.Writer
}

type LogHandlerOption func(*LogHandler)

// WithIgnoreDebug drops DEBUG messages.
func WithIgnoreDebug() LogHandlerOption {
	return func(h *LogHandler) { h.level = slog.LevelInfo }
}

// WithOutput also writes every line to w.
func WithOutput(w io.Writer) LogHandlerOption {
	return func(h *LogHandler) { h.rec.out = w }
}

func NewLogHandler(opts ...LogHandlerOption) *LogHandler {
	h := &LogHandler{rec: &recorder{}, level: slog.LevelDebug}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Lines returns the recorded lines.
func (h *LogHandler) Lines() []string {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	return slices.Clone(h.rec.lines)
}

// Filter returns the recorded lines containing every substring.
func (h *LogHandler) Filter(substrings ...string) []string {
	var out []string
	for _, line := range h.Lines() {
		match := true
		for _, s := range substrings {
			if !strings.Contains(line, s) {
				match = false
				break
			}
		}
		if match {
			out = append(out, line)
		}
	}
	return out
}

func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

//nolint:gocritic
func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	var parts []string
	for _, a := range h.attrs {
		parts = append(parts, formatAttr(a, ""))
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, formatAttr(a, h.prefix))
		return true
	})

	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	line := fmt.Sprintf("[%d] %s: %s", len(h.rec.lines), r.Level, r.Message)
	if len(parts) > 0 {
		line += " " + strings.Join(parts, ", ")
	}
	h.rec.lines = append(h.rec.lines, line)
	if h.rec.out != nil {
		fmt.Fprintln(h.rec.out, line)
	}
	return nil
}

func formatAttr(a slog.Attr, prefix string) string {
	if a.Value.Kind() == slog.KindGroup {
		var parts []string
		for _, ga := range a.Value.Group() {
			parts = append(parts, formatAttr(ga, prefix+a.Key+"."))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%s%s=%v", prefix, a.Key, a.Value)
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

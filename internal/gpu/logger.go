package gpu

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record; Enabled reports false so uploads never
// format attributes when nobody listens.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

// active is the logger used by the pipeline and the uploader. The render
// goroutine reads it while SetLogger may swap it from elsewhere.
var active atomic.Pointer[slog.Logger]

func init() { active.Store(slog.New(discard{})) }

// slogger returns the logger for pipeline creation, buffer growth and
// font texture uploads.
func slogger() *slog.Logger { return active.Load() }

// SetLogger replaces the GPU layer's logger. gterm.SetLogger forwards
// here; nil silences the layer again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discard{})
	}
	active.Store(l)
}

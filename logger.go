package gterm

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gterm/internal/gpu"
)

// nopHandler backs the silent default. Its Enabled is false, so the
// per-frame Debug records are never formatted.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the Renderer logger. SetLogger may run on any goroutine
// while the render goroutine is inside Frame.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the logger shared by every Renderer and forwards it to
// the GPU uploader. Renderers are silent until this is called; nil makes
// them silent again.
//
// Frame statistics and buffer growth log at Debug. Font loads, grid
// resizes and GPU attachment log at Info. Warn is kept for frames that
// lose output, such as truncated quads or input dropped by a full queue.
//
//	gterm.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the logger set by SetLogger, or a silent one.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

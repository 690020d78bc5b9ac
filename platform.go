package gterm

import "github.com/gogpu/gterm/grid"

// Platform is the window-system side of the renderer. Methods return
// ErrNotSupported for requests the platform cannot honor.
type Platform interface {
	SetClipboard(text string) error
	SetTitle(title string) error
	SetIconTitle(title string) error
	SetPointerMotion(enabled bool) error
	SetCursorShape(style grid.CursorStyle) error
}

// Clipboard copies text to the system clipboard.
func (r *Renderer) Clipboard(text string) error {
	if r.platform == nil {
		return ErrNotSupported
	}
	return r.platform.SetClipboard(text)
}

// SetTitle sets the window title.
func (r *Renderer) SetTitle(title string) error {
	if r.platform == nil {
		return ErrNotSupported
	}
	return r.platform.SetTitle(title)
}

// SetIconTitle sets the iconified window title.
func (r *Renderer) SetIconTitle(title string) error {
	if r.platform == nil {
		return ErrNotSupported
	}
	return r.platform.SetIconTitle(title)
}

// SetPointerMotion enables or disables pointer motion reporting.
func (r *Renderer) SetPointerMotion(enabled bool) error {
	if r.platform == nil {
		return ErrNotSupported
	}
	return r.platform.SetPointerMotion(enabled)
}

// SetCursorShape changes the cursor style. The grid cursor is updated
// even when the platform has no native cursor to change.
func (r *Renderer) SetCursorShape(style grid.CursorStyle) error {
	c := r.grid.Cursor()
	c.Style = style
	r.grid.SetCursor(c)
	if r.platform == nil {
		return ErrNotSupported
	}
	return r.platform.SetCursorShape(style)
}

package gterm

import (
	"errors"
	"fmt"

	"github.com/gogpu/gterm/grid"
	"github.com/gogpu/gterm/palette"
)

// Engine-facing hooks. The terminal engine calls these when its state
// changes in ways that affect rendering.

// ResolveColorName returns the palette index for a color name or #literal.
// Names that cannot be resolved map to the default background and are
// counted in Diagnostics.
func (r *Renderer) ResolveColorName(name string) uint32 {
	idx, err := r.pal.ResolveByName(name)
	if err != nil {
		return r.substitute(err, "name", name)
	}
	return idx
}

// ResolveColor returns the palette index holding c, interning it if
// needed. A full palette yields the default background.
func (r *Renderer) ResolveColor(c palette.RGBA16) uint32 {
	idx, err := r.pal.ResolveByColor(c)
	if err != nil {
		return r.substitute(err, "color", c.String())
	}
	return idx
}

// ResolveIndexedColor returns the palette index for xterm color i.
func (r *Renderer) ResolveIndexedColor(i int) uint32 {
	idx, err := r.pal.ResolveIndexedColor(i)
	if err != nil {
		return r.substitute(err, "index", i)
	}
	return idx
}

func (r *Renderer) substitute(err error, key string, value any) uint32 {
	if errors.Is(err, palette.ErrPaletteExhausted) {
		r.diag.paletteExhausted.Add(1)
	} else {
		r.diag.unknownColors.Add(1)
	}
	Logger().Warn("gterm: color unavailable, using default background", key, value, "err", err)
	return r.defaults.BG
}

// SetColorName recolors palette slot i. An empty name restores the theme
// color of an ANSI or default slot.
func (r *Renderer) SetColorName(i uint32, name string) error {
	if name == "" {
		var ok bool
		if name, ok = r.themeName(i); !ok {
			return fmt.Errorf("gterm: slot %d has no theme color: %w", i, palette.ErrIndexOutOfRange)
		}
	}
	if err := r.pal.SetName(i, name); err != nil {
		return fmt.Errorf("gterm: %w", err)
	}
	return nil
}

func (r *Renderer) themeName(i uint32) (string, bool) {
	switch {
	case i < palette.NumANSI:
		return r.theme.ANSI[i], true
	case i == r.defaults.FG:
		return r.theme.Foreground, true
	case i == r.defaults.BG:
		return r.theme.Background, true
	case i == r.defaults.Cursor:
		return r.theme.Cursor, true
	case i == r.defaults.ReverseCursor:
		return r.theme.ReverseCursor, true
	}
	return "", false
}

// SetMode sets or clears window mode flags on the grid.
func (r *Renderer) SetMode(set bool, flags grid.WinMode) {
	r.grid.SetMode(set, flags)
}

// Bell counts the bell and calls the function set with WithBell.
func (r *Renderer) Bell() {
	r.diag.bells.Add(1)
	if r.bell != nil {
		r.bell()
	}
}

// MarkPaletteDirty forces the palette to be uploaded with the next frame.
func (r *Renderer) MarkPaletteDirty() {
	r.pal.MarkDirty()
}

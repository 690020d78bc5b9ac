package gterm

import (
	"errors"
	"testing"

	"github.com/gogpu/gterm/grid"
	"github.com/gogpu/gterm/palette"
)

func TestResolveHooks(t *testing.T) {
	r := newTestRenderer(t, 4, 2)
	d := r.Defaults()

	red := r.ResolveColorName("red3")
	if red != 1 {
		t.Errorf("red3 = %d, want ANSI slot 1", red)
	}
	if got := r.ResolveColorName("#5c5cff"); got != 12 {
		t.Errorf("#5c5cff = %d, want 12", got)
	}
	if got := r.ResolveColor(palette.RGB8(0xcd, 0, 0)); got != red {
		t.Errorf("ResolveColor(red3 value) = %d, want %d", got, red)
	}
	if got := r.ResolveIndexedColor(9); got != 9 {
		t.Errorf("indexed 9 = %d", got)
	}
	i21 := r.ResolveIndexedColor(21)
	if i21 < palette.NumANSI || i21 == d.BG {
		t.Errorf("indexed 21 = %d, want a new slot", i21)
	}
	if r.ResolveIndexedColor(21) != i21 {
		t.Error("indexed 21 not stable")
	}
	if diag := r.Diagnostics(); diag.UnknownColors != 0 {
		t.Errorf("UnknownColors = %d after valid lookups", diag.UnknownColors)
	}

	if got := r.ResolveColorName("not-a-color"); got != d.BG {
		t.Errorf("unknown name = %d, want default bg %d", got, d.BG)
	}
	if got := r.ResolveIndexedColor(300); got != d.BG {
		t.Errorf("indexed 300 = %d, want default bg", got)
	}
	if diag := r.Diagnostics(); diag.UnknownColors != 2 {
		t.Errorf("UnknownColors = %d, want 2", diag.UnknownColors)
	}
}

func TestResolveColorExhausted(t *testing.T) {
	r := newTestRenderer(t, 4, 2)
	d := r.Defaults()
	var last uint32
	for i := 0; r.Palette().Len() < palette.Capacity; i++ {
		last = r.ResolveColor(palette.RGB8(uint8(i), uint8(i>>8), 0x42))
	}
	if last == d.BG {
		t.Fatal("filling the palette already hit the fallback")
	}
	if got := r.ResolveColor(palette.RGB8(1, 2, 3)); got != d.BG {
		t.Errorf("color past capacity = %d, want default bg", got)
	}
	if diag := r.Diagnostics(); diag.PaletteExhausted != 1 || diag.UnknownColors != 0 {
		t.Errorf("Diagnostics = %+v", diag)
	}
}

func TestSetColorName(t *testing.T) {
	r := newTestRenderer(t, 4, 2)
	pal := r.Palette()

	if err := r.SetColorName(1, "#00ff00"); err != nil {
		t.Fatalf("SetColorName error = %v", err)
	}
	if e, _ := pal.Lookup(1); e.Color != palette.RGB8(0, 0xff, 0) {
		t.Errorf("slot 1 = %v, want #00ff00", e.Color)
	}
	if !pal.Dirty() {
		t.Error("recolor did not dirty the palette")
	}

	if err := r.SetColorName(1, ""); err != nil {
		t.Fatalf("restore error = %v", err)
	}
	if e, _ := pal.Lookup(1); e.Name != "red3" {
		t.Errorf("restored slot 1 = %q, want red3", e.Name)
	}
	if err := r.SetColorName(r.Defaults().BG, ""); err != nil {
		t.Errorf("restore background error = %v", err)
	}

	if err := r.SetColorName(2, "not-a-color"); !errors.Is(err, palette.ErrUnknownColorName) {
		t.Errorf("unknown name error = %v", err)
	}
	if err := r.SetColorName(900, ""); !errors.Is(err, palette.ErrIndexOutOfRange) {
		t.Errorf("restore of non-theme slot error = %v", err)
	}
}

func TestModeBellAndPalette(t *testing.T) {
	rang := 0
	r := newTestRenderer(t, 4, 2, WithBell(func() { rang++ }))

	r.SetMode(true, grid.ModeReverse)
	if r.Grid().Mode()&grid.ModeReverse == 0 {
		t.Error("SetMode did not reach the grid")
	}

	r.Bell()
	r.Bell()
	if rang != 2 || r.Diagnostics().Bells != 2 {
		t.Errorf("bell calls = %d, counted %d", rang, r.Diagnostics().Bells)
	}

	if _, err := r.Frame(nil); err != nil {
		t.Fatal(err)
	}
	if r.Palette().Dirty() {
		t.Fatal("palette still dirty after a frame")
	}
	r.MarkPaletteDirty()
	st, err := r.Frame(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !st.PaletteChanged {
		t.Error("MarkPaletteDirty did not refresh the palette")
	}
}

type fakePlatform struct {
	clipboard string
	title     string
	icon      string
	motion    bool
	shape     grid.CursorStyle
}

func (p *fakePlatform) SetClipboard(text string) error          { p.clipboard = text; return nil }
func (p *fakePlatform) SetTitle(title string) error             { p.title = title; return nil }
func (p *fakePlatform) SetIconTitle(title string) error         { p.icon = title; return nil }
func (p *fakePlatform) SetPointerMotion(enabled bool) error     { p.motion = enabled; return nil }
func (p *fakePlatform) SetCursorShape(s grid.CursorStyle) error { p.shape = s; return nil }

func TestPlatformHooksNotSupported(t *testing.T) {
	r := newTestRenderer(t, 4, 2)
	checks := map[string]error{
		"Clipboard":        r.Clipboard("x"),
		"SetTitle":         r.SetTitle("x"),
		"SetIconTitle":     r.SetIconTitle("x"),
		"SetPointerMotion": r.SetPointerMotion(true),
		"SetCursorShape":   r.SetCursorShape(grid.CursorBar),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrNotSupported) {
			t.Errorf("%s error = %v, want ErrNotSupported", name, err)
		}
	}
	if r.Grid().Cursor().Style != grid.CursorBar {
		t.Error("cursor style not applied to the grid")
	}
}

func TestPlatformHooks(t *testing.T) {
	p := &fakePlatform{}
	r := newTestRenderer(t, 4, 2, WithPlatform(p))
	if err := r.Clipboard("copied"); err != nil {
		t.Fatal(err)
	}
	_ = r.SetTitle("vim")
	_ = r.SetIconTitle("v")
	_ = r.SetPointerMotion(true)
	_ = r.SetCursorShape(grid.CursorUnderline)
	if p.clipboard != "copied" || p.title != "vim" || p.icon != "v" || !p.motion || p.shape != grid.CursorUnderline {
		t.Errorf("platform saw %+v", p)
	}
}

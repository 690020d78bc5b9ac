package frame

import (
	"github.com/gogpu/gterm/atlas"
	"github.com/gogpu/gterm/grid"
	"github.com/gogpu/gterm/palette"
)

// cursorAttrs are the attributes of the cell under the cursor that survive
// into the cursor glyph.
const cursorAttrs = grid.AttrBold | grid.AttrItalic | grid.AttrUnderline | grid.AttrStruck | grid.AttrWide

// walker emits the quads of one frame.
type walker struct {
	buf   *Buffers
	g     *grid.Grid
	atlas *atlas.Table
	slot  int
	mode  grid.WinMode
	defs  palette.Defaults

	cellW, cellH float32
	ascent       float32
	texW, texH   float32
	sx, sy       float32

	defaultBG uint32

	n       int
	dropped int
}

func newWalker(buf *Buffers, in Input, font *atlas.Entry) *walker {
	w := &walker{
		buf:    buf,
		g:      in.Grid,
		atlas:  in.Atlas,
		slot:   in.Atlas.Active(),
		mode:   in.Grid.Mode(),
		defs:   in.Defaults,
		cellW:  float32(font.Info.CellWidth),
		cellH:  float32(font.Info.LineHeight()),
		ascent: float32(font.Info.Ascent),
		texW:   float32(font.AtlasWidth),
		texH:   float32(font.AtlasHeight),
		sx:     2 / float32(in.Surface.Width),
		sy:     2 / float32(in.Surface.Height),
	}
	w.defaultBG = w.defs.BG
	if w.mode&grid.ModeReverse != 0 {
		w.defaultBG = w.defs.FG
	}
	return w
}

func (w *walker) emit(r rect, color uint32, kind float32) bool {
	if w.n >= w.buf.Capacity {
		w.dropped++
		return false
	}
	w.buf.putQuad(w.n, r, color, kind, w.sx, w.sy)
	w.n++
	return true
}

// colors resolves the drawn foreground and background of c.
func (w *walker) colors(c grid.Cell) (fg, bg uint32) {
	fg, bg = c.FG, c.BG
	if c.Attr&grid.AttrBold != 0 && fg < 8 {
		fg += 8
	}
	if w.mode&grid.ModeReverse != 0 {
		if fg == w.defs.FG {
			fg = w.defs.BG
		}
		if bg == w.defs.BG {
			bg = w.defs.FG
		}
	}
	if c.Attr&grid.AttrReverse != 0 {
		fg, bg = bg, fg
	}
	if c.Attr&grid.AttrBlink != 0 && w.mode&grid.ModeBlink != 0 {
		fg = bg
	}
	if c.Attr&grid.AttrInvisible != 0 {
		fg = bg
	}
	return fg, bg
}

func (w *walker) cellRect(col, row int, wide bool) rect {
	x0 := float32(col) * w.cellW
	y0 := float32(row) * w.cellH
	cw := w.cellW
	if wide {
		cw *= 2
	}
	return rect{x0: x0, y0: y0, x1: x0 + cw, y1: y0 + w.cellH}
}

func (w *walker) glyphRect(col, row int, g atlas.BakedGlyph) rect {
	x := float32(col)*w.cellW + g.XOff
	y := float32(row)*w.cellH + w.ascent + g.YOff
	return rect{
		x0: x,
		y0: y,
		x1: x + float32(g.X1-g.X0),
		y1: y + float32(g.Y1-g.Y0),
		u0: float32(g.X0) / w.texW,
		v0: float32(g.Y0) / w.texH,
		u1: float32(g.X1) / w.texW,
		v1: float32(g.Y1) / w.texH,
	}
}

// drawCell emits the background and glyph quads of one cell whose
// attributes are already final.
func (w *walker) drawCell(col, row int, c grid.Cell, st *Stats) {
	fg, bg := w.colors(c)
	if c.Blank() && bg == w.defaultBG {
		return
	}
	if bg != w.defaultBG {
		if w.emit(w.cellRect(col, row, c.Attr&grid.AttrWide != 0), bg, KindBackground) {
			st.Backgrounds++
		}
	}
	r := c.Rune
	if r == 0 {
		r = ' '
	}
	g := w.atlas.MetricsFor(w.slot, r)
	if g == atlas.MissingGlyph {
		st.Missing++
	}
	if w.emit(w.glyphRect(col, row, g), fg, KindGlyph) {
		st.Glyphs++
	}
}

// cells walks the visible grid in row-major order.
func (w *walker) cells(st *Stats) {
	for row := 0; row < w.g.Rows(); row++ {
		for col, c := range w.g.Row(row) {
			if c.Attr&grid.AttrWDummy != 0 {
				continue
			}
			if w.g.Selected(col, row) {
				c.Attr ^= grid.AttrReverse
			}
			w.drawCell(col, row, c, st)
		}
	}
}

// cursor draws the cursor over the cell it sits on.
//
// In reverse video the cursor glyph is drawn reversed over the default
// foreground; otherwise the cursor color becomes the background and the
// default background the glyph color. A selected cell swaps in the reverse
// cursor color.
func (w *walker) cursor(st *Stats) {
	if w.mode&grid.ModeHide != 0 {
		return
	}
	cur := w.g.Cursor()
	col, row := cur.Col, cur.Row
	if col > 0 && w.g.Cell(col, row).Attr&grid.AttrWDummy != 0 {
		col--
	}
	g := w.g.Cell(col, row)
	g.Attr &= cursorAttrs
	selected := w.g.Selected(col, row)

	if w.mode&grid.ModeReverse != 0 {
		g.Attr |= grid.AttrReverse
		g.BG = w.defs.FG
		if selected {
			g.FG = w.defs.ReverseCursor
		} else {
			g.FG = w.defs.Cursor
		}
	} else if selected {
		g.FG = w.defs.FG
		g.BG = w.defs.ReverseCursor
	} else {
		g.FG = w.defs.BG
		g.BG = w.defs.Cursor
	}
	fg, bg := w.colors(g)

	r := w.cellRect(col, row, g.Attr&grid.AttrWide != 0)
	switch cur.Style {
	case grid.CursorUnderline:
		r.y0 = r.y1 - cursorThickness
	case grid.CursorBar:
		r.x1 = r.x0 + cursorThickness
	}
	if w.emit(r, bg, KindBackground) {
		st.Cursor++
	}
	if cur.Style != grid.CursorBlock || g.Blank() {
		return
	}
	glyph := w.atlas.MetricsFor(w.slot, g.Rune)
	if glyph == atlas.MissingGlyph {
		st.Missing++
	}
	if w.emit(w.glyphRect(col, row, glyph), fg, KindGlyph) {
		st.Cursor++
	}
}

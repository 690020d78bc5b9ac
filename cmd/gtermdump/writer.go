package main

import (
	"strconv"
	"strings"

	"github.com/gogpu/gterm"
	"github.com/gogpu/gterm/grid"
	"github.com/gogpu/gterm/palette"
)

const (
	esc      = 0x1b
	tabWidth = 8
)

// writer places text lines into the renderer's grid, one row per line,
// tracking SGR state across lines.
type writer struct {
	r     *gterm.Renderer
	row   int
	lines int

	fg, bg uint32
	attr   grid.Attr
}

func newWriter(r *gterm.Renderer) *writer {
	w := &writer{r: r}
	w.reset()
	return w
}

func (w *writer) reset() {
	d := w.r.Defaults()
	w.fg, w.bg, w.attr = d.FG, d.BG, grid.AttrNone
}

// line writes s into the next row. It reports false once the grid is full.
func (w *writer) line(s string) bool {
	g := w.r.Grid()
	if w.row >= g.Rows() {
		return false
	}
	col := 0
	for len(s) > 0 {
		if s[0] == esc {
			s = w.escape(s)
			continue
		}
		i := strings.IndexByte(s, esc)
		if i < 0 {
			i = len(s)
		}
		col = g.PutString(col, w.row, expandTabs(s[:i], col), w.fg, w.bg, w.attr)
		s = s[i:]
	}
	w.row++
	w.lines++
	return true
}

func expandTabs(s string, col int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r != '\t' {
			b.WriteRune(r)
			col++
			continue
		}
		n := tabWidth - col%tabWidth
		b.WriteString(strings.Repeat(" ", n))
		col += n
	}
	return b.String()
}

// escape consumes one escape sequence at the start of s and returns the
// rest. CSI sequences ending in 'm' update the SGR state.
func (w *writer) escape(s string) string {
	if len(s) < 2 || s[1] != '[' {
		return s[min(len(s), 2):]
	}
	for i := 2; i < len(s); i++ {
		if c := s[i]; c >= 0x40 && c <= 0x7e {
			if c == 'm' {
				w.sgr(s[2:i])
			}
			return s[i+1:]
		}
	}
	return ""
}

func (w *writer) sgr(params string) {
	var ps []int
	for _, p := range strings.Split(params, ";") {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		ps = append(ps, n)
	}
	for i := 0; i < len(ps); i++ {
		p := ps[i]
		switch {
		case p == 0:
			w.reset()
		case p == 1:
			w.attr |= grid.AttrBold
		case p == 2:
			w.attr |= grid.AttrFaint
		case p == 3:
			w.attr |= grid.AttrItalic
		case p == 4:
			w.attr |= grid.AttrUnderline
		case p == 5:
			w.attr |= grid.AttrBlink
		case p == 7:
			w.attr |= grid.AttrReverse
		case p == 8:
			w.attr |= grid.AttrInvisible
		case p == 9:
			w.attr |= grid.AttrStruck
		case p == 22:
			w.attr &^= grid.AttrBold | grid.AttrFaint
		case p == 27:
			w.attr &^= grid.AttrReverse
		case p >= 30 && p <= 37:
			w.fg = w.r.ResolveIndexedColor(p - 30)
		case p == 39:
			w.fg = w.r.Defaults().FG
		case p >= 40 && p <= 47:
			w.bg = w.r.ResolveIndexedColor(p - 40)
		case p == 49:
			w.bg = w.r.Defaults().BG
		case p >= 90 && p <= 97:
			w.fg = w.r.ResolveIndexedColor(p - 90 + 8)
		case p >= 100 && p <= 107:
			w.bg = w.r.ResolveIndexedColor(p - 100 + 8)
		case p == 38 || p == 48:
			idx, n := w.extended(ps[i+1:])
			i += n
			if n == 0 {
				continue
			}
			if p == 38 {
				w.fg = idx
			} else {
				w.bg = idx
			}
		}
	}
}

// extended parses the arguments of SGR 38/48 and returns the color and
// the number of parameters consumed.
func (w *writer) extended(ps []int) (uint32, int) {
	switch {
	case len(ps) >= 2 && ps[0] == 5:
		return w.r.ResolveIndexedColor(ps[1]), 2
	case len(ps) >= 4 && ps[0] == 2:
		c := palette.RGB8(clamp8(ps[1]), clamp8(ps[2]), clamp8(ps[3]))
		return w.r.ResolveColor(c), 4
	}
	return 0, 0
}

func clamp8(v int) uint8 {
	return uint8(max(0, min(v, 255))) //nolint:gosec // clamped
}

package grid

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Arena bounds.
const (
	MaxRows = 512
	MaxCols = 512
)

// ErrSize is returned for dimensions outside 1..MaxCols × 1..MaxRows.
var ErrSize = errors.New("grid: size out of range")

// Grid is a cols×rows view over a fixed MaxRows×MaxCols cell arena.
//
// Resizing never reallocates: cells outside the visible area keep their
// contents and reappear when the grid grows again.
type Grid struct {
	cells []Cell
	cols  int
	rows  int
	blank Cell

	dirty    [MaxRows]bool
	anyDirty bool

	cursor Cursor
	mode   WinMode
	sel    Selection
}

// New returns a grid of the given size filled with blank.
func New(cols, rows int, blank Cell) (*Grid, error) {
	if err := checkSize(cols, rows); err != nil {
		return nil, err
	}
	g := &Grid{
		cells: make([]Cell, MaxRows*MaxCols),
		cols:  cols,
		rows:  rows,
		blank: blank,
		mode:  ModeVisible,
	}
	for i := range g.cells {
		g.cells[i] = blank
	}
	g.MarkAllDirty()
	return g, nil
}

func checkSize(cols, rows int) error {
	if cols < 1 || cols > MaxCols || rows < 1 || rows > MaxRows {
		return fmt.Errorf("%w: %dx%d (max %dx%d)", ErrSize, cols, rows, MaxCols, MaxRows)
	}
	return nil
}

// Cols returns the visible width.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the visible height.
func (g *Grid) Rows() int { return g.rows }

// Resize changes the visible area. The cursor is clamped into it and every
// row becomes dirty.
func (g *Grid) Resize(cols, rows int) error {
	if err := checkSize(cols, rows); err != nil {
		return err
	}
	g.cols, g.rows = cols, rows
	g.cursor.Col = min(g.cursor.Col, cols-1)
	g.cursor.Row = min(g.cursor.Row, rows-1)
	g.MarkAllDirty()
	return nil
}

// Blank returns the cell used by Clear.
func (g *Grid) Blank() Cell { return g.blank }

// SetBlank changes the cell used by Clear, e.g. after the default colors
// moved to other palette slots.
func (g *Grid) SetBlank(c Cell) { g.blank = c }

// Clear fills the visible area with the blank cell.
func (g *Grid) Clear() {
	for r := 0; r < g.rows; r++ {
		row := g.row(r)
		for c := range row {
			row[c] = g.blank
		}
	}
	g.MarkAllDirty()
}

func (g *Grid) row(r int) []Cell {
	off := r * MaxCols
	return g.cells[off : off+g.cols]
}

func (g *Grid) inside(col, row int) bool {
	return col >= 0 && col < g.cols && row >= 0 && row < g.rows
}

// Row returns the visible cells of row r for reading. It returns nil for
// rows outside the grid.
func (g *Grid) Row(r int) []Cell {
	if r < 0 || r >= g.rows {
		return nil
	}
	return g.row(r)
}

// Cell returns the cell at col, row, or the zero Cell outside the grid.
func (g *Grid) Cell(col, row int) Cell {
	if !g.inside(col, row) {
		return Cell{}
	}
	return g.cells[row*MaxCols+col]
}

// Set stores c at col, row and marks the row dirty. It reports false when
// the position is outside the grid.
func (g *Grid) Set(col, row int, c Cell) bool {
	if !g.inside(col, row) {
		return false
	}
	g.cells[row*MaxCols+col] = c
	g.MarkDirty(row)
	return true
}

// PutString writes s starting at col, row with the given colors and
// attributes, and returns the column after the last written cell.
//
// Double-width runes occupy a wide cell followed by a dummy cell; a wide
// rune that does not fit in the last column is not written. Zero-width
// runes are dropped. Writing stops at the end of the row.
func (g *Grid) PutString(col, row int, s string, fg, bg uint32, attr Attr) int {
	if row < 0 || row >= g.rows {
		return col
	}
	for _, r := range s {
		if col >= g.cols {
			break
		}
		w := runewidth.RuneWidth(r)
		switch {
		case w == 0:
			continue
		case w == 2:
			if col+1 >= g.cols {
				return col
			}
			g.Set(col, row, Cell{Rune: uint32(r), Attr: attr | AttrWide, FG: fg, BG: bg})
			g.Set(col+1, row, Cell{Attr: attr | AttrWDummy, FG: fg, BG: bg})
			col += 2
		default:
			g.Set(col, row, Cell{Rune: uint32(r), Attr: attr, FG: fg, BG: bg})
			col++
		}
	}
	return col
}

// MarkDirty flags row r for redraw.
func (g *Grid) MarkDirty(r int) {
	if r < 0 || r >= MaxRows {
		return
	}
	g.dirty[r] = true
	g.anyDirty = true
}

// MarkAllDirty flags every visible row.
func (g *Grid) MarkAllDirty() {
	for r := 0; r < g.rows; r++ {
		g.dirty[r] = true
	}
	g.anyDirty = true
}

// Dirty reports whether row r needs redrawing.
func (g *Grid) Dirty(r int) bool {
	return r >= 0 && r < MaxRows && g.dirty[r]
}

// AnyDirty reports whether any row needs redrawing.
func (g *Grid) AnyDirty() bool { return g.anyDirty }

// ClearDirty marks every row clean.
func (g *Grid) ClearDirty() {
	g.dirty = [MaxRows]bool{}
	g.anyDirty = false
}

// Cursor returns the cursor.
func (g *Grid) Cursor() Cursor { return g.cursor }

// SetCursor moves the cursor, clamped into the grid. The rows it leaves
// and enters become dirty.
func (g *Grid) SetCursor(c Cursor) {
	c.Col = max(0, min(c.Col, g.cols-1))
	c.Row = max(0, min(c.Row, g.rows-1))
	if c != g.cursor {
		g.MarkDirty(g.cursor.Row)
		g.MarkDirty(c.Row)
	}
	g.cursor = c
}

// Mode returns the window mode flags.
func (g *Grid) Mode() WinMode { return g.mode }

// SetMode sets (set true) or clears the flags. Toggling ModeReverse,
// ModeBlink or ModeHide redraws the affected rows.
func (g *Grid) SetMode(set bool, flags WinMode) {
	old := g.mode
	if set {
		g.mode |= flags
	} else {
		g.mode &^= flags
	}
	changed := old ^ g.mode
	if changed&(ModeReverse|ModeBlink) != 0 {
		g.MarkAllDirty()
	} else if changed&ModeHide != 0 {
		g.MarkDirty(g.cursor.Row)
	}
}

// Selection returns the current selection.
func (g *Grid) Selection() Selection { return g.sel }

// Select replaces the selection. Rows covered by the old or the new
// selection become dirty.
func (g *Grid) Select(s Selection) {
	g.markSelection(g.sel)
	g.sel = s
	g.markSelection(s)
}

// ClearSelection removes the selection.
func (g *Grid) ClearSelection() {
	g.Select(Selection{})
}

// Selected reports whether the cell at col, row is selected.
func (g *Grid) Selected(col, row int) bool {
	return g.sel.Contains(col, row)
}

func (g *Grid) markSelection(s Selection) {
	if !s.Active() {
		return
	}
	for r := max(s.Begin.Row, 0); r <= min(s.End.Row, g.rows-1); r++ {
		g.MarkDirty(r)
	}
}

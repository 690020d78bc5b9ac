// Package frame turns a terminal grid into GPU-ready quads.
//
// A Compiler walks the visible cells of a grid.Grid row by row and writes
// one background quad for every cell whose background differs from the
// default, one glyph quad for every non-blank cell and up to two quads for
// the cursor. Vertices carry a palette index instead of a color; the
// shader resolves it through the palette block in Uniforms.
//
// Output buffers are sized by Resize and reused by every Compile. When the
// grid, palette, font and surface are all unchanged since the previous
// frame the walk is skipped and the previous buffers stay valid.
package frame

import (
	"errors"
	"fmt"

	"github.com/gogpu/gterm/atlas"
	"github.com/gogpu/gterm/grid"
	"github.com/gogpu/gterm/palette"
)

// MaxCapacity is the largest quad capacity: two quads per cell of a full
// grid arena plus the cursor.
const MaxCapacity = grid.MaxRows*grid.MaxCols*2 + 2

// cursorThickness is the size in pixels of underline and bar cursors.
const cursorThickness = 2

var errIncompleteInput = errors.New("frame: input needs a grid, palette and atlas")

// Surface is the drawable size in pixels.
type Surface struct {
	Width, Height int
}

// Input is everything one Compile reads. None of it is retained.
type Input struct {
	Grid    *grid.Grid
	Palette *palette.Allocator
	Atlas   *atlas.Table
	Surface Surface

	// Defaults are the special palette indices used for the default
	// colors and the cursor.
	Defaults palette.Defaults

	// Force recompiles even when nothing changed.
	Force bool
}

// Stats describes one compiled frame.
type Stats struct {
	Quads       int
	Backgrounds int
	Glyphs      int
	Cursor      int

	// Missing counts glyph quads for codepoints the font has no glyph for.
	Missing int

	// Dropped counts quads that did not fit in the buffers.
	Dropped int

	// Reused is set when the previous frame was kept as is.
	Reused bool

	// PaletteChanged is set when the palette block was refreshed.
	PaletteChanged bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithQuadCapacity fixes the buffer capacity in quads instead of sizing it
// from the grid dimensions. Non-positive values are ignored.
func WithQuadCapacity(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.fixedCapacity = n
		}
	}
}

// Compiler builds frames. It is not safe for concurrent use.
type Compiler struct {
	buf           Buffers
	fixedCapacity int
	cols, rows    int

	// State of the last walked frame, for change detection.
	valid      bool
	lastGrid   *grid.Grid
	lastFont   *atlas.Entry
	lastSurf   Surface
	lastPalGen uint64
	lastDefs   palette.Defaults
}

// NewCompiler returns a compiler without buffers. Call Resize before
// Compile.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Buffers returns the output buffers. They are overwritten by the next
// Compile and reallocated by Resize.
func (c *Compiler) Buffers() *Buffers { return &c.buf }

// Capacity returns the buffer capacity in quads.
func (c *Compiler) Capacity() int { return c.buf.Capacity }

// Resize sizes the buffers for a cols×rows grid. Buffers are reallocated
// only when the capacity changes; the next Compile always walks the grid.
func (c *Compiler) Resize(cols, rows int) error {
	if cols < 1 || cols > grid.MaxCols || rows < 1 || rows > grid.MaxRows {
		return fmt.Errorf("%w: %dx%d grid", ErrInvalidSize, cols, rows)
	}
	capacity := cols*rows*2 + 2
	if c.fixedCapacity > 0 {
		capacity = c.fixedCapacity
	}
	if capacity > MaxCapacity {
		return fmt.Errorf("%w: %d quads exceeds %d", ErrInvalidSize, capacity, MaxCapacity)
	}
	if capacity != c.buf.Capacity {
		c.buf.Vertices = make([]Vertex, capacity*4)
		c.buf.Indices = make([]uint32, capacity*6)
		quadIndices(c.buf.Indices)
		c.buf.Capacity = capacity
	}
	c.cols, c.rows = cols, rows
	c.buf.Quads = 0
	c.valid = false
	return nil
}

// Invalidate makes the next Compile walk the grid.
func (c *Compiler) Invalidate() { c.valid = false }

func (c *Compiler) unchanged(in Input, font *atlas.Entry) bool {
	return c.valid && !in.Force &&
		!in.Grid.AnyDirty() && !in.Palette.Dirty() &&
		in.Grid == c.lastGrid && font == c.lastFont &&
		in.Surface == c.lastSurf &&
		in.Palette.Generation() == c.lastPalGen &&
		in.Defaults == c.lastDefs
}

// Compile writes the frame for in into the buffers.
//
// A frame that needs more quads than the capacity is truncated and an
// *OverflowError is returned together with valid Stats; the buffers still
// hold a drawable frame.
func (c *Compiler) Compile(in Input) (Stats, error) {
	if c.buf.Capacity == 0 {
		return Stats{}, ErrNotSized
	}
	if in.Grid == nil || in.Palette == nil || in.Atlas == nil {
		return Stats{}, errIncompleteInput
	}
	if in.Surface.Width <= 0 || in.Surface.Height <= 0 {
		return Stats{}, fmt.Errorf("%w: %dx%d", ErrNoSurface, in.Surface.Width, in.Surface.Height)
	}
	font, ok := in.Atlas.Entry(in.Atlas.Active())
	if !ok {
		return Stats{}, ErrNoFont
	}
	if c.unchanged(in, font) {
		c.buf.PaletteChanged = false
		return Stats{Quads: c.buf.Quads, Reused: true}, nil
	}

	var st Stats
	if !c.valid || in.Palette.Dirty() || in.Palette.Generation() != c.lastPalGen {
		n := in.Palette.ExportFloats(&c.buf.Uniforms.Palette)
		c.buf.Uniforms.Atlas[3] = float32(n)
		st.PaletteChanged = true
	}
	c.buf.PaletteChanged = st.PaletteChanged

	w := newWalker(&c.buf, in, font)
	w.cells(&st)
	w.cursor(&st)

	c.buf.Quads = w.n
	c.buf.Background = w.defaultBG
	c.writeUniforms(in, font, w)

	st.Quads = w.n
	st.Dropped = w.dropped

	in.Grid.ClearDirty()
	c.valid = true
	c.lastGrid = in.Grid
	c.lastFont = font
	c.lastSurf = in.Surface
	c.lastPalGen = in.Palette.Generation()
	c.lastDefs = in.Defaults

	if w.dropped > 0 {
		return st, &OverflowError{Capacity: c.buf.Capacity, Dropped: w.dropped}
	}
	return st, nil
}

func (c *Compiler) writeUniforms(in Input, font *atlas.Entry, w *walker) {
	u := &c.buf.Uniforms
	u.Viewport = [4]float32{float32(in.Surface.Width), float32(in.Surface.Height), w.cellW, w.cellH}
	u.Grid = [4]uint32{uint32(in.Grid.Rows()), uint32(in.Grid.Cols()), grid.MaxRows, grid.MaxCols}
	u.Font = [4]float32{
		float32(font.Info.Ascent),
		float32(font.Info.Descent),
		float32(font.Info.LineGap),
		float32(font.PixelHeight),
	}
	u.Atlas[0] = float32(font.AtlasWidth)
	u.Atlas[1] = float32(font.AtlasHeight)
	u.Atlas[2] = float32(in.Atlas.Active())
}

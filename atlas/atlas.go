// Package atlas bakes fonts into glyph bitmaps and maps logical font slots
// to glyph metrics and GPU textures.
//
// Each loaded font occupies one of MaxFonts slots. Loading rasterizes the
// codepoints 0..255 into a single alpha bitmap (the atlas) and records, per
// codepoint, where the glyph lives in the bitmap and how it is positioned
// relative to the pen. Codepoints outside that range resolve to
// MissingGlyph, which has no area and no advance, so callers can render any
// cell without special cases.
//
// A Table is not safe for concurrent use.
package atlas

import (
	"fmt"
	"image"

	"github.com/gogpu/wgpu/hal"
)

// Table limits.
const (
	// MaxFonts is the number of font slots.
	MaxFonts = 32

	// NumGlyphs is the number of baked codepoints per font.
	NumGlyphs = 256
)

// BakedGlyph locates one glyph in its font's bitmap.
type BakedGlyph struct {
	// X0, Y0, X1, Y1 is the glyph's bounding box in the bitmap, in pixels.
	X0, Y0, X1, Y1 uint16

	// XOff and YOff position the box's top-left corner relative to the pen
	// on the baseline. YOff is negative above the baseline.
	XOff, YOff float32

	// XAdvance moves the pen to the next glyph.
	XAdvance float32
}

// MissingGlyph is returned for codepoints that have no baked glyph.
var MissingGlyph = BakedGlyph{}

// Empty reports whether the glyph covers no pixels.
func (g BakedGlyph) Empty() bool {
	return g.X1 <= g.X0 || g.Y1 <= g.Y0
}

// FontInfo holds the font-level metrics the renderer needs, in pixels.
type FontInfo struct {
	PixelHeight int
	Ascent      int // above the baseline, positive
	Descent     int // below the baseline, negative
	LineGap     int
	CellWidth   int

	TexWidth  int
	TexHeight int
}

// LineHeight returns the vertical distance between two baselines.
func (fi FontInfo) LineHeight() int {
	return fi.Ascent - fi.Descent + fi.LineGap
}

// Entry is one loaded font.
type Entry struct {
	Name        string
	PixelHeight int
	AtlasWidth  int
	AtlasHeight int
	Glyphs      [NumGlyphs]BakedGlyph
	Info        FontInfo

	// Bitmap is the baked alpha atlas, AtlasWidth×AtlasHeight. Builtin
	// bakes are shared between tables and must not be modified.
	Bitmap *image.Alpha

	texture hal.Texture
}

// Texture returns the GPU texture bound to the entry, or nil before upload.
func (e *Entry) Texture() hal.Texture { return e.texture }

// Option configures a Table.
type Option func(*Table)

// WithBakeWidth sets the width of baked bitmaps. Values below 64 are ignored.
func WithBakeWidth(w int) Option {
	return func(t *Table) {
		if w >= 64 {
			t.bakeWidth = w
		}
	}
}

// Table owns the loaded fonts.
type Table struct {
	entries   [MaxFonts]*Entry
	n         int
	active    int
	bakeWidth int
}

// NewTable returns an empty font table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		active:    -1,
		bakeWidth: DefaultBakeWidth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// LoadFont bakes desc at pixelHeight into the next free slot and returns
// the slot. The first font loaded becomes the active font.
func (t *Table) LoadFont(desc Descriptor, pixelHeight int) (int, error) {
	if t.n >= MaxFonts {
		return -1, fmt.Errorf("%w: %d slots in use", ErrFontTableFull, t.n)
	}
	if pixelHeight <= 0 || pixelHeight > MaxPixelHeight {
		return -1, &FontLoadError{Name: desc.Name, Err: fmt.Errorf("pixel height %d outside 1..%d", pixelHeight, MaxPixelHeight)}
	}
	baked, err := t.bake(desc, pixelHeight)
	if err != nil {
		return -1, &FontLoadError{Name: desc.Name, Err: err}
	}

	slot := t.n
	t.entries[slot] = &Entry{
		Name:        desc.Name,
		PixelHeight: pixelHeight,
		AtlasWidth:  baked.info.TexWidth,
		AtlasHeight: baked.info.TexHeight,
		Glyphs:      baked.glyphs,
		Info:        baked.info,
		Bitmap:      baked.bitmap,
	}
	t.n++
	if t.active < 0 {
		t.active = slot
	}
	return slot, nil
}

// bake rasterizes desc. Builtin fonts go through the shared bake cache;
// files and raw data are baked every time.
func (t *Table) bake(desc Descriptor, pixelHeight int) (*bakedFont, error) {
	data, err := desc.load()
	if err != nil {
		return nil, err
	}
	if !desc.isBuiltin() {
		return bake(data, pixelHeight, t.bakeWidth)
	}
	key := bakeKey{name: desc.Name, pixelHeight: pixelHeight, width: t.bakeWidth}
	return sharedBakes.getOrBake(key, func() (*bakedFont, error) {
		return bake(data, pixelHeight, t.bakeWidth)
	})
}

// MetricsFor returns the glyph for codepoint r in slot. Unknown slots and
// codepoints outside 0..255 yield MissingGlyph.
func (t *Table) MetricsFor(slot int, r uint32) BakedGlyph {
	if r >= NumGlyphs || slot < 0 || slot >= t.n {
		return MissingGlyph
	}
	return t.entries[slot].Glyphs[r]
}

// Info returns the font metrics of slot.
func (t *Table) Info(slot int) (FontInfo, bool) {
	if slot < 0 || slot >= t.n {
		return FontInfo{}, false
	}
	return t.entries[slot].Info, true
}

// Entry returns the font in slot.
func (t *Table) Entry(slot int) (*Entry, bool) {
	if slot < 0 || slot >= t.n {
		return nil, false
	}
	return t.entries[slot], true
}

// Len returns the number of loaded fonts.
func (t *Table) Len() int { return t.n }

// Active returns the slot used for compiling frames, or -1 when no font is
// loaded.
func (t *Table) Active() int { return t.active }

// SetActive selects the font for subsequently compiled frames.
func (t *Table) SetActive(slot int) error {
	if slot < 0 || slot >= t.n {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	t.active = slot
	return nil
}

// BindTexture records the GPU texture holding slot's bitmap. A slot's
// texture can be bound once.
func (t *Table) BindTexture(slot int, tex hal.Texture) error {
	e, ok := t.Entry(slot)
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	if tex == nil {
		return fmt.Errorf("atlas: nil texture for slot %d", slot)
	}
	if e.texture != nil {
		return fmt.Errorf("%w: slot %d", ErrTextureBound, slot)
	}
	e.texture = tex
	return nil
}

// Unbound returns the slots whose bitmaps have not been uploaded yet.
func (t *Table) Unbound() []int {
	var slots []int
	for i := 0; i < t.n; i++ {
		if t.entries[i].texture == nil {
			slots = append(slots, i)
		}
	}
	return slots
}

// Reset forgets every font. Textures are owned by the uploader and must be
// released there.
func (t *Table) Reset() {
	t.entries = [MaxFonts]*Entry{}
	t.n = 0
	t.active = -1
}

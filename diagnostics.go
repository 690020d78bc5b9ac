package gterm

import "sync/atomic"

// Diagnostics counts non-fatal conditions the renderer recovered from.
type Diagnostics struct {
	// UnknownColors counts color names that failed to resolve and were
	// replaced by the default background.
	UnknownColors uint64

	// PaletteExhausted counts colors that did not fit in the palette.
	PaletteExhausted uint64

	// OverflowFrames counts frames truncated to the quad capacity, and
	// DroppedQuads the quads lost in them.
	OverflowFrames uint64
	DroppedQuads   uint64

	// MissingGlyphs counts glyph quads drawn for codepoints the font lacks.
	MissingGlyphs uint64

	// DroppedEvents counts input events rejected by a full queue.
	DroppedEvents uint64

	// Bells counts Bell calls.
	Bells uint64
}

// counters is the live, atomically updated form of Diagnostics.
type counters struct {
	unknownColors    atomic.Uint64
	paletteExhausted atomic.Uint64
	overflowFrames   atomic.Uint64
	droppedQuads     atomic.Uint64
	missingGlyphs    atomic.Uint64
	bells            atomic.Uint64
}

func (c *counters) snapshot() Diagnostics {
	return Diagnostics{
		UnknownColors:    c.unknownColors.Load(),
		PaletteExhausted: c.paletteExhausted.Load(),
		OverflowFrames:   c.overflowFrames.Load(),
		DroppedQuads:     c.droppedQuads.Load(),
		MissingGlyphs:    c.missingGlyphs.Load(),
		Bells:            c.bells.Load(),
	}
}

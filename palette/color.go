// Package palette interns terminal colors into a bounded index space.
//
// A terminal cell refers to its foreground and background by a small
// integer index rather than by value. The Allocator hands out those indices:
// named colors ("red3", "gray90"), hex literals ("#5c5cff") and raw 16-bit
// RGBA values are deduplicated into a fixed table of Capacity entries that
// mirrors the palette array uploaded to the GPU.
//
// Indices are permanent for the lifetime of the table. Reset discards the
// whole table and bumps Generation, invalidating every previously issued
// index.
//
// The Allocator is not safe for concurrent use. It is owned by the render
// loop, which serializes all access.
package palette

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBA16 is a color with 16-bit channels, as used by X11 and XRender.
type RGBA16 struct {
	R, G, B, A uint16
}

// RGBA implements color.Color. RGBA16 stores straight alpha, so the channels
// are premultiplied on the way out.
func (c RGBA16) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	r = uint32(c.R) * a / 0xffff
	g = uint32(c.G) * a / 0xffff
	b = uint32(c.B) * a / 0xffff
	return r, g, b, a
}

// Floats converts the color to normalized [0, 1] floats for GPU consumption.
func (c RGBA16) Floats() [4]float32 {
	const max = float32(0xffff)
	return [4]float32{
		float32(c.R) / max,
		float32(c.G) / max,
		float32(c.B) / max,
		float32(c.A) / max,
	}
}

// String returns the synthetic name used for colors interned by value.
func (c RGBA16) String() string {
	return fmt.Sprintf("color_%d_%d_%d_%d", c.R, c.G, c.B, c.A)
}

// RGB8 builds an opaque color from 8-bit channels, widening each channel so
// that 0xff maps to 0xffff.
func RGB8(r, g, b uint8) RGBA16 {
	return RGBA16{R: widen(r), G: widen(g), B: widen(b), A: 0xffff}
}

// FromColor converts any color.Color to RGBA16.
func FromColor(c color.Color) RGBA16 {
	if c16, ok := c.(RGBA16); ok {
		return c16
	}
	nc := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA16{R: nc.R, G: nc.G, B: nc.B, A: nc.A}
}

func widen(v uint8) uint16 {
	return uint16(v)<<8 | uint16(v)
}

// LiteralMarker prefixes color names that spell out a literal value.
const LiteralMarker = '#'

// ParseLiteral parses a "#rgb" or "#rrggbb" literal.
func ParseLiteral(s string) (RGBA16, error) {
	if len(s) == 0 || s[0] != LiteralMarker {
		return RGBA16{}, &UnknownColorError{Name: s}
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA16{}, &UnknownColorError{Name: s, Err: err}
	}
	r, g, b := c.RGB255()
	return RGB8(r, g, b), nil
}

// Cube and ramp boundaries of the 256-color indexed palette.
const (
	firstCubeIndex = 16
	lastCubeIndex  = firstCubeIndex + 6*6*6 - 1
	firstGrayIndex = lastCubeIndex + 1
	lastGrayIndex  = 255
)

// sixdTo16 maps a 6x6x6 cube coordinate to a 16-bit channel value.
func sixdTo16(x int) uint16 {
	if x == 0 {
		return 0
	}
	return uint16(0x3737 + 0x2828*x)
}

// IndexedColor synthesizes the xterm 256-color palette entry for i.
// Indices 16..231 form a 6x6x6 RGB cube, 232..255 a 24-step grayscale ramp.
// The boolean is false for indices outside [16, 255].
func IndexedColor(i int) (RGBA16, bool) {
	switch {
	case i >= firstCubeIndex && i <= lastCubeIndex:
		n := i - firstCubeIndex
		return RGBA16{
			R: sixdTo16((n / 36) % 6),
			G: sixdTo16((n / 6) % 6),
			B: sixdTo16(n % 6),
			A: 0xffff,
		}, true
	case i >= firstGrayIndex && i <= lastGrayIndex:
		v := uint16(0x0808 + 0x0a0a*(i-firstGrayIndex))
		return RGBA16{R: v, G: v, B: v, A: 0xffff}, true
	default:
		return RGBA16{}, false
	}
}

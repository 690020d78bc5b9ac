package atlas

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Bake limits.
const (
	// DefaultBakeWidth is the width of a baked glyph bitmap.
	DefaultBakeWidth = 512

	// MaxBakeHeight bounds the bitmap height the packer may grow to.
	MaxBakeHeight = 4096

	// MaxPixelHeight is the largest accepted font pixel height.
	MaxPixelHeight = 256

	glyphPadding = 1
)

// bakedFont is the result of rasterizing one font.
type bakedFont struct {
	glyphs [NumGlyphs]BakedGlyph
	info   FontInfo
	bitmap *image.Alpha
}

type glyphImage struct {
	mask *image.Alpha
	dr   image.Rectangle
}

// bake rasterizes codepoints 0..NumGlyphs-1 of data at pixelHeight.
//
// The font is scaled so that ascent plus descent spans pixelHeight pixels.
// Codepoints the font has no glyph for keep zero metrics.
func bake(data []byte, pixelHeight, width int) (*bakedFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var buf sfnt.Buffer
	upem := int(f.UnitsPerEm())
	um, err := f.Metrics(&buf, fixed.I(upem), font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	span := fixedToFloat64(um.Ascent) + fixedToFloat64(um.Descent)
	if span <= 0 {
		return nil, fmt.Errorf("font reports non-positive ascent+descent %v", span)
	}
	ppem := float64(pixelHeight) * float64(upem) / span

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    ppem,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	out := &bakedFont{}
	var images [NumGlyphs]glyphImage
	for c := 0; c < NumGlyphs; c++ {
		gi, err := f.GlyphIndex(&buf, rune(c))
		if err != nil || gi == 0 {
			continue
		}
		dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, rune(c))
		if !ok {
			continue
		}
		out.glyphs[c].XAdvance = float32(fixedToFloat64(advance))
		if dr.Empty() {
			continue
		}
		// The face reuses its mask buffer between calls.
		cp := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		draw.Draw(cp, cp.Bounds(), mask, maskp, draw.Src)
		images[c] = glyphImage{mask: cp, dr: dr}
	}

	packer := newShelfPacker(width, MaxBakeHeight, glyphPadding)
	var regions [NumGlyphs]image.Rectangle
	for c := range images {
		img := images[c]
		if img.mask == nil {
			continue
		}
		r, ok := packer.allocate(img.dr.Dx(), img.dr.Dy())
		if !ok {
			return nil, fmt.Errorf("glyph %d does not fit a %dx%d bitmap", c, width, MaxBakeHeight)
		}
		regions[c] = r
	}

	height := nextPow2(max(packer.usedHeight(), 1))
	out.bitmap = image.NewAlpha(image.Rect(0, 0, width, height))
	for c := range images {
		img := images[c]
		if img.mask == nil {
			continue
		}
		r := regions[c]
		draw.Draw(out.bitmap, r, img.mask, image.Point{}, draw.Src)
		out.glyphs[c].X0 = uint16(r.Min.X)
		out.glyphs[c].Y0 = uint16(r.Min.Y)
		out.glyphs[c].X1 = uint16(r.Max.X)
		out.glyphs[c].Y1 = uint16(r.Max.Y)
		out.glyphs[c].XOff = float32(img.dr.Min.X)
		out.glyphs[c].YOff = float32(img.dr.Min.Y)
	}

	fm := face.Metrics()
	lineGap := fm.Height - fm.Ascent - fm.Descent
	if lineGap < 0 {
		lineGap = 0
	}
	out.info = FontInfo{
		PixelHeight: pixelHeight,
		Ascent:      fm.Ascent.Ceil(),
		Descent:     -fm.Descent.Ceil(),
		LineGap:     lineGap.Round(),
		CellWidth:   cellWidth(&out.glyphs),
		TexWidth:    width,
		TexHeight:   height,
	}
	return out, nil
}

// cellWidth is the advance of 'M', or the widest advance when the font has
// no 'M'.
func cellWidth(glyphs *[NumGlyphs]BakedGlyph) int {
	if adv := glyphs['M'].XAdvance; adv > 0 {
		return int(math.Ceil(float64(adv)))
	}
	var widest float32
	for i := range glyphs {
		widest = max(widest, glyphs[i].XAdvance)
	}
	return int(math.Ceil(float64(widest)))
}

func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

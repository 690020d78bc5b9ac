package frame

import (
	"github.com/gogpu/gterm/palette"
)

// Vertex kinds, stored in Vertex.Kind.
const (
	KindBackground float32 = 0
	KindGlyph      float32 = 1
)

// VertexStride is the size of one serialized Vertex in bytes.
const VertexStride = 24

// Vertex is one corner of a quad.
type Vertex struct {
	// Position is in normalized device coordinates.
	Position [2]float32

	// TexCoord is the normalized atlas coordinate. Background quads use 0.
	TexCoord [2]float32

	// Color is a palette index stored as a float for the vertex stage.
	Color float32

	// Kind is KindBackground or KindGlyph.
	Kind float32
}

// Uniforms mirrors the shader's uniform block.
type Uniforms struct {
	// Viewport is surface width, surface height, cell width, cell height
	// in pixels.
	Viewport [4]float32

	// Grid is rows, cols, MaxRows, MaxCols.
	Grid [4]uint32

	// Font is ascent, descent, line gap and pixel height of the active font.
	Font [4]float32

	// Atlas is texture width, texture height, font slot and palette length.
	Atlas [4]float32

	// Palette holds normalized RGBA per palette index.
	Palette [palette.Capacity][4]float32
}

// Buffers is the output of a compiled frame. The slices are allocated by
// Compiler.Resize and rewritten in place by every Compile.
type Buffers struct {
	// Vertices has room for Capacity quads; the first Quads*4 are valid.
	Vertices []Vertex

	// Indices is the fixed 0,1,2, 2,3,0 pattern for Capacity quads.
	Indices []uint32

	Uniforms Uniforms

	// Quads is the number of quads written by the last Compile.
	Quads int

	// Capacity is the number of quads the buffers hold.
	Capacity int

	// Background is the palette index the surface should be cleared to.
	Background uint32

	// PaletteChanged reports whether the last Compile refreshed
	// Uniforms.Palette.
	PaletteChanged bool
}

// ActiveVertices returns the vertices of the last compiled frame.
func (b *Buffers) ActiveVertices() []Vertex {
	return b.Vertices[:b.Quads*4]
}

// IndexCount returns the number of indices to draw for the last frame.
func (b *Buffers) IndexCount() int {
	return b.Quads * 6
}

// quadIndices fills dst with two triangles per quad: 0,1,2, 2,3,0.
func quadIndices(dst []uint32) {
	for i := 0; i < len(dst)/6; i++ {
		base := i * 6
		vertex := uint32(i * 4)
		dst[base+0] = vertex + 0
		dst[base+1] = vertex + 1
		dst[base+2] = vertex + 2
		dst[base+3] = vertex + 2
		dst[base+4] = vertex + 3
		dst[base+5] = vertex + 0
	}
}

// rect is a quad in pixel space with its atlas region.
type rect struct {
	x0, y0, x1, y1 float32
	u0, v0, u1, v1 float32
}

// putQuad writes r as four vertices at quad slot i. Corners go
// top-left, top-right, bottom-right, bottom-left in pixel space.
func (b *Buffers) putQuad(i int, r rect, color uint32, kind float32, sx, sy float32) {
	nx0, ny0 := r.x0*sx-1, 1-r.y0*sy
	nx1, ny1 := r.x1*sx-1, 1-r.y1*sy
	c := float32(color)
	v := b.Vertices[i*4 : i*4+4]
	v[0] = Vertex{Position: [2]float32{nx0, ny0}, TexCoord: [2]float32{r.u0, r.v0}, Color: c, Kind: kind}
	v[1] = Vertex{Position: [2]float32{nx1, ny0}, TexCoord: [2]float32{r.u1, r.v0}, Color: c, Kind: kind}
	v[2] = Vertex{Position: [2]float32{nx1, ny1}, TexCoord: [2]float32{r.u1, r.v1}, Color: c, Kind: kind}
	v[3] = Vertex{Position: [2]float32{nx0, ny1}, TexCoord: [2]float32{r.u0, r.v1}, Color: c, Kind: kind}
}

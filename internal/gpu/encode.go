package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/gterm/frame"
	"github.com/gogpu/gterm/palette"
)

// Uniform buffer layout, matching the WGSL Uniforms struct.
const (
	uniformHeaderSize  = 64
	uniformPaletteSize = palette.Capacity * 16

	// UniformSize is the full uniform block in bytes.
	UniformSize = uniformHeaderSize + uniformPaletteSize
)

// IndexSize is the size of one index in bytes.
const IndexSize = 4

func putFloat(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}

// encodeVertices serializes verts into dst, which must hold
// len(verts)*frame.VertexStride bytes.
func encodeVertices(dst []byte, verts []frame.Vertex) []byte {
	dst = dst[:len(verts)*frame.VertexStride]
	for i, v := range verts {
		off := i * frame.VertexStride
		putFloat(dst[off+0:], v.Position[0])
		putFloat(dst[off+4:], v.Position[1])
		putFloat(dst[off+8:], v.TexCoord[0])
		putFloat(dst[off+12:], v.TexCoord[1])
		putFloat(dst[off+16:], v.Color)
		putFloat(dst[off+20:], v.Kind)
	}
	return dst
}

// encodeIndices serializes the index pattern.
func encodeIndices(indices []uint32) []byte {
	data := make([]byte, len(indices)*IndexSize)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(data[i*IndexSize:], idx)
	}
	return data
}

// encodeUniformHeader writes viewport, grid, font and atlas vectors.
func encodeUniformHeader(dst []byte, u *frame.Uniforms) []byte {
	dst = dst[:uniformHeaderSize]
	for i := 0; i < 4; i++ {
		putFloat(dst[i*4:], u.Viewport[i])
		binary.LittleEndian.PutUint32(dst[16+i*4:], u.Grid[i])
		putFloat(dst[32+i*4:], u.Font[i])
		putFloat(dst[48+i*4:], u.Atlas[i])
	}
	return dst
}

// encodePalette writes the first n palette colors. Entries beyond n are
// left to whatever the buffer held, which the shader never reads for
// indices the frame does not reference.
//
// With linear set the RGB channels are decoded from sRGB, for targets
// whose format re-encodes on store. Alpha is always linear.
func encodePalette(dst []byte, u *frame.Uniforms, n int, linear bool) []byte {
	if n > palette.Capacity {
		n = palette.Capacity
	}
	dst = dst[:n*16]
	for i := 0; i < n; i++ {
		c := u.Palette[i]
		if linear {
			r, g, b := colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.LinearRgb()
			c = [4]float32{float32(r), float32(g), float32(b), c[3]}
		}
		putFloat(dst[i*16:], c[0])
		putFloat(dst[i*16+4:], c[1])
		putFloat(dst[i*16+8:], c[2])
		putFloat(dst[i*16+12:], c[3])
	}
	return dst
}

// IsSRGB reports whether format applies sRGB encoding on store.
func IsSRGB(format gputypes.TextureFormat) bool {
	switch format {
	case gputypes.TextureFormatRGBA8UnormSrgb, gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}

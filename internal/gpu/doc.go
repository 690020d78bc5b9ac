// Package gpu moves compiled terminal frames onto the GPU.
//
// It owns the vertex, index and uniform buffers, one R8 texture per loaded
// font and the render pipeline that draws the frame, all created through
// the gogpu/wgpu HAL. Frames come from package frame already laid out; this
// package only serializes and uploads them, and optionally records the
// draw into a render pass.
//
// Buffer layout:
//
//	vertex   24 bytes: position vec2<f32>, tex_coord vec2<f32>, color_kind vec2<f32>
//	index    uint32, 0,1,2, 2,3,0 per quad, written once per capacity
//	uniform  64-byte header (viewport, grid, font, atlas) + 1024 palette vec4<f32>
package gpu

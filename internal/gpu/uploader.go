package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gterm/atlas"
	"github.com/gogpu/gterm/frame"
)

// fenceTimeout bounds how long Draw waits for the GPU.
const fenceTimeout = 5 * time.Second

// fontResources are the GPU objects of one font slot.
type fontResources struct {
	texture   hal.Texture
	view      hal.TextureView
	bindGroup hal.BindGroup
}

// Uploader owns the GPU buffers of a terminal frame and the glyph
// textures of every loaded font, and records the draw.
//
// The index buffer is written once per capacity since the index pattern
// never changes. The vertex buffer and uniform header are rewritten every
// Submit; the palette block only when the frame reports a palette change.
type Uploader struct {
	device   hal.Device
	queue    hal.Queue
	pipeline *Pipeline

	uniformBuf hal.Buffer
	vertexBuf  hal.Buffer
	indexBuf   hal.Buffer
	capacity   int

	fonts [atlas.MaxFonts]*fontResources

	// Staging for the serialized frame, reused between submits.
	vertexData  []byte
	uniformData []byte

	indexCount uint32
}

// NewUploader creates the uniform buffer and returns an uploader drawing
// with p. Vertex and index buffers are created by EnsureBuffers.
func NewUploader(device hal.Device, queue hal.Queue, p *Pipeline) (*Uploader, error) {
	if device == nil || queue == nil || p == nil {
		return nil, ErrNilDevice
	}
	uniformBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "terminal_uniforms",
		Size:  UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: uniforms: %w", ErrBufferAllocation, err)
	}
	return &Uploader{
		device:      device,
		queue:       queue,
		pipeline:    p,
		uniformBuf:  uniformBuf,
		uniformData: make([]byte, UniformSize),
	}, nil
}

// Capacity returns the quad capacity of the current buffers.
func (u *Uploader) Capacity() int { return u.capacity }

// EnsureBuffers creates vertex and index buffers for b.Capacity quads and
// writes the index pattern. Buffers of the right size are kept.
func (u *Uploader) EnsureBuffers(b *frame.Buffers) error {
	if b.Capacity == u.capacity && u.vertexBuf != nil {
		return nil
	}
	if b.Capacity <= 0 {
		return fmt.Errorf("%w: capacity %d", ErrBufferAllocation, b.Capacity)
	}
	u.destroyBuffers()

	vertexSize := uint64(b.Capacity) * 4 * frame.VertexStride
	vertexBuf, err := u.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "terminal_vertices",
		Size:  vertexSize,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%w: vertices: %w", ErrBufferAllocation, err)
	}

	indexData := encodeIndices(b.Indices)
	indexBuf, err := u.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "terminal_indices",
		Size:  uint64(len(indexData)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		u.device.DestroyBuffer(vertexBuf)
		return fmt.Errorf("%w: indices: %w", ErrBufferAllocation, err)
	}
	if err := u.queue.WriteBuffer(indexBuf, 0, indexData); err != nil {
		u.device.DestroyBuffer(vertexBuf)
		u.device.DestroyBuffer(indexBuf)
		return fmt.Errorf("%w: indices: %w", ErrBufferAllocation, err)
	}

	u.vertexBuf = vertexBuf
	u.indexBuf = indexBuf
	u.capacity = b.Capacity
	if cap(u.vertexData) < int(vertexSize) {
		u.vertexData = make([]byte, vertexSize)
	}
	slogger().Debug("gpu: terminal buffers allocated", "quads", b.Capacity, "vertex_bytes", vertexSize)
	return nil
}

// UploadFonts creates a texture for every font slot in tbl without one,
// uploads its bitmap and binds the texture back to the slot.
func (u *Uploader) UploadFonts(tbl *atlas.Table) error {
	for _, slot := range tbl.Unbound() {
		e, _ := tbl.Entry(slot)
		res, err := u.uploadFont(slot, e)
		if err != nil {
			return err
		}
		if err := tbl.BindTexture(slot, res.texture); err != nil {
			u.destroyFont(res)
			return err
		}
		if old := u.fonts[slot]; old != nil {
			u.destroyFont(old)
		}
		u.fonts[slot] = res
		slogger().Debug("gpu: font uploaded", "slot", slot, "name", e.Name,
			"width", e.AtlasWidth, "height", e.AtlasHeight)
	}
	return nil
}

func (u *Uploader) uploadFont(slot int, e *atlas.Entry) (*fontResources, error) {
	w, h := uint32(e.AtlasWidth), uint32(e.AtlasHeight) //nolint:gosec // atlas dimensions are bounded by the bake width
	tex, err := u.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("terminal_font_%d", slot),
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create font texture %d: %w", slot, err)
	}
	res := &fontResources{texture: tex}

	view, err := u.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         fmt.Sprintf("terminal_font_%d_view", slot),
		Format:        gputypes.TextureFormatR8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		u.destroyFont(res)
		return nil, fmt.Errorf("create font texture view %d: %w", slot, err)
	}
	res.view = view

	err = u.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		e.Bitmap.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(e.Bitmap.Stride), //nolint:gosec // stride equals the atlas width
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		u.destroyFont(res)
		return nil, fmt.Errorf("write font texture %d: %w", slot, err)
	}

	bindGroup, err := u.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  fmt.Sprintf("terminal_bind_%d", slot),
		Layout: u.pipeline.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: u.uniformBuf.NativeHandle(), Offset: 0, Size: UniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: u.pipeline.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		u.destroyFont(res)
		return nil, fmt.Errorf("create font bind group %d: %w", slot, err)
	}
	res.bindGroup = bindGroup
	return res, nil
}

// Submit writes the compiled frame into the GPU buffers.
func (u *Uploader) Submit(b *frame.Buffers) error {
	if u.vertexBuf == nil || b.Capacity != u.capacity {
		return ErrNoBuffers
	}
	verts := b.ActiveVertices()
	if len(verts) > 0 {
		data := encodeVertices(u.vertexData, verts)
		if err := u.queue.WriteBuffer(u.vertexBuf, 0, data); err != nil {
			return fmt.Errorf("write vertices: %w", err)
		}
	}
	if err := u.queue.WriteBuffer(u.uniformBuf, 0, encodeUniformHeader(u.uniformData, &b.Uniforms)); err != nil {
		return fmt.Errorf("write uniforms: %w", err)
	}
	if b.PaletteChanged {
		n := int(b.Uniforms.Atlas[3])
		data := encodePalette(u.uniformData[uniformHeaderSize:], &b.Uniforms, n, IsSRGB(u.pipeline.format))
		if err := u.queue.WriteBuffer(u.uniformBuf, uniformHeaderSize, data); err != nil {
			return fmt.Errorf("write palette: %w", err)
		}
	}
	u.indexCount = uint32(b.IndexCount()) //nolint:gosec // bounded by MaxCapacity*6
	return nil
}

// Draw clears view to clear and draws the last submitted frame with the
// glyphs of font slot.
func (u *Uploader) Draw(view hal.TextureView, clear gputypes.Color, slot int) error {
	if u.vertexBuf == nil {
		return ErrNoBuffers
	}
	if slot < 0 || slot >= atlas.MaxFonts || u.fonts[slot] == nil {
		return fmt.Errorf("%w: %d", ErrNoFontTexture, slot)
	}
	res := u.fonts[slot]

	encoder, err := u.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "terminal_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("terminal_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "terminal_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})
	if u.indexCount > 0 {
		rp.SetPipeline(u.pipeline.pipeline)
		rp.SetBindGroup(0, res.bindGroup, nil)
		rp.SetVertexBuffer(0, u.vertexBuf, 0)
		rp.SetIndexBuffer(u.indexBuf, gputypes.IndexFormatUint32, 0)
		rp.DrawIndexed(u.indexCount, 1, 0, 0, 0)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer u.device.FreeCommandBuffer(cmdBuf)

	fence, err := u.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer u.device.DestroyFence(fence)

	if err := u.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := u.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// ReleaseFonts destroys every font texture. Call it with atlas.Table.Reset.
func (u *Uploader) ReleaseFonts() {
	for i, res := range u.fonts {
		if res != nil {
			u.destroyFont(res)
			u.fonts[i] = nil
		}
	}
}

func (u *Uploader) destroyFont(res *fontResources) {
	if res.bindGroup != nil {
		u.device.DestroyBindGroup(res.bindGroup)
	}
	if res.view != nil {
		u.device.DestroyTextureView(res.view)
	}
	if res.texture != nil {
		u.device.DestroyTexture(res.texture)
	}
}

func (u *Uploader) destroyBuffers() {
	if u.vertexBuf != nil {
		u.device.DestroyBuffer(u.vertexBuf)
		u.vertexBuf = nil
	}
	if u.indexBuf != nil {
		u.device.DestroyBuffer(u.indexBuf)
		u.indexBuf = nil
	}
	u.capacity = 0
	u.indexCount = 0
}

// Destroy releases all GPU resources owned by the uploader. The pipeline
// is not destroyed.
func (u *Uploader) Destroy() {
	u.ReleaseFonts()
	u.destroyBuffers()
	if u.uniformBuf != nil {
		u.device.DestroyBuffer(u.uniformBuf)
		u.uniformBuf = nil
	}
}

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Target is an offscreen render target for headless drawing.
type Target struct {
	device  hal.Device
	texture hal.Texture
	view    hal.TextureView
	width   uint32
	height  uint32
}

// NewTarget creates a width×height color target in format.
func NewTarget(device hal.Device, width, height uint32, format gputypes.TextureFormat) (*Target, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "terminal_target",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create target texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "terminal_target_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create target view: %w", err)
	}
	return &Target{device: device, texture: tex, view: view, width: width, height: height}, nil
}

// View returns the view to render into.
func (t *Target) View() hal.TextureView { return t.view }

// Size returns the target dimensions.
func (t *Target) Size() (uint32, uint32) { return t.width, t.height }

// Destroy releases the target.
func (t *Target) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

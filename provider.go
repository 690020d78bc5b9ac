package gterm

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by device providers that expose their HAL
// objects, such as gogpu.App.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// AttachProvider attaches the GPU device shared by a host application.
// The provider must expose HAL types and report its surface format; the
// pipeline is built for that format.
func (r *Renderer) AttachProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return fmt.Errorf("gterm: %w: nil provider", ErrNoGPU)
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gterm: %w: provider does not expose HAL types", ErrNotSupported)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gterm: %w: provider HalDevice is not hal.Device", ErrNoGPU)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gterm: %w: provider HalQueue is not hal.Queue", ErrNoGPU)
	}
	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		return fmt.Errorf("gterm: %w: provider has no surface format", ErrNoGPU)
	}
	return r.AttachGPU(device, queue, format)
}

package gpu

import "errors"

var (
	// ErrBufferAllocation is returned when a GPU buffer cannot be created.
	// The renderer cannot continue without its buffers.
	ErrBufferAllocation = errors.New("gpu: buffer allocation failed")

	// ErrNoBuffers is returned by Submit and Draw before EnsureBuffers.
	ErrNoBuffers = errors.New("gpu: buffers not allocated")

	// ErrNoFontTexture is returned by Draw for a font slot without an
	// uploaded texture.
	ErrNoFontTexture = errors.New("gpu: font slot has no texture")

	// ErrNilDevice is returned when a nil device or queue is supplied.
	ErrNilDevice = errors.New("gpu: device or queue is nil")
)

package gterm

import "errors"

var (
	// ErrNotSupported is returned by platform hooks when no Platform is
	// configured, or when the Platform does not implement the request.
	ErrNotSupported = errors.New("gterm: not supported")

	// ErrClosed is returned by operations on a closed Renderer.
	ErrClosed = errors.New("gterm: renderer closed")

	// ErrNoGPU is returned by Draw when no GPU device is attached.
	ErrNoGPU = errors.New("gterm: no GPU attached")
)

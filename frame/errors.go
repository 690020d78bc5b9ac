package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferOverflow is reported when a frame needs more quads than the
	// buffers hold. The frame is still usable; excess quads are dropped.
	ErrBufferOverflow = errors.New("frame: quad buffer overflow")

	// ErrInvalidSize is returned by Resize for dimensions outside the
	// grid arena or for an oversized quad capacity.
	ErrInvalidSize = errors.New("frame: invalid size")

	// ErrNotSized is returned by Compile before the first Resize.
	ErrNotSized = errors.New("frame: compiler has no buffers")

	// ErrNoFont is returned by Compile when the atlas has no active font.
	ErrNoFont = errors.New("frame: no active font")

	// ErrNoSurface is returned by Compile for an empty surface.
	ErrNoSurface = errors.New("frame: empty surface")
)

// OverflowError reports how many quads a frame could not hold.
type OverflowError struct {
	Capacity int
	Dropped  int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("frame: quad buffer overflow: capacity %d, dropped %d", e.Capacity, e.Dropped)
}

// Unwrap returns ErrBufferOverflow.
func (e *OverflowError) Unwrap() error { return ErrBufferOverflow }

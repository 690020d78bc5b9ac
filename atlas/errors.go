package atlas

import "errors"

// Sentinel errors for the atlas package.
var (
	// ErrFontLoad is returned when a font cannot be read, parsed or baked.
	ErrFontLoad = errors.New("atlas: font load failed")

	// ErrFontTableFull is returned when all MaxFonts slots are occupied.
	ErrFontTableFull = errors.New("atlas: font table full")

	// ErrInvalidSlot is returned for slot indices that hold no font.
	ErrInvalidSlot = errors.New("atlas: invalid font slot")

	// ErrTextureBound is returned when a slot's texture is bound twice.
	ErrTextureBound = errors.New("atlas: texture already bound")
)

// FontLoadError describes why a font could not be loaded.
type FontLoadError struct {
	Name string
	Err  error
}

func (e *FontLoadError) Error() string {
	if e.Err == nil {
		return "atlas: load font " + e.Name
	}
	return "atlas: load font " + e.Name + ": " + e.Err.Error()
}

// Is reports ErrFontLoad as the error's kind.
func (e *FontLoadError) Is(target error) bool {
	return target == ErrFontLoad
}

func (e *FontLoadError) Unwrap() error {
	return e.Err
}

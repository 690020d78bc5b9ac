package palette

import "errors"

// Sentinel errors for the palette package.
var (
	// ErrUnknownColorName is returned when a name is neither interned,
	// a literal, nor known to the system color database.
	ErrUnknownColorName = errors.New("palette: unknown color name")

	// ErrPaletteExhausted is returned when every slot of the table is taken.
	ErrPaletteExhausted = errors.New("palette: palette exhausted")

	// ErrIndexOutOfRange is returned for indexed colors outside [0, 255]
	// and for table indices that are not occupied.
	ErrIndexOutOfRange = errors.New("palette: index out of range")

	// ErrNotInitialized is returned when a default slot is requested before
	// InitDefaults has run.
	ErrNotInitialized = errors.New("palette: defaults not initialized")
)

// UnknownColorError carries the name that failed to resolve.
type UnknownColorError struct {
	Name string
	Err  error // parse failure for literals, nil otherwise
}

func (e *UnknownColorError) Error() string {
	if e.Err != nil {
		return "palette: unknown color name " + quote(e.Name) + ": " + e.Err.Error()
	}
	return "palette: unknown color name " + quote(e.Name)
}

// Is reports ErrUnknownColorName as the error's kind.
func (e *UnknownColorError) Is(target error) bool {
	return target == ErrUnknownColorName
}

func (e *UnknownColorError) Unwrap() error {
	return e.Err
}

func quote(s string) string {
	return `"` + s + `"`
}

// Package grid holds the terminal screen model shared between the terminal
// engine and the frame compiler: a fixed arena of cells, the cursor, window
// modes, the selection and per-row dirty flags.
//
// The engine writes the grid; the renderer reads it once per frame and
// clears the dirty flags. A Grid is not safe for concurrent use.
package grid

// Attr is a set of cell attribute flags.
type Attr uint16

// Cell attributes.
const (
	AttrBold Attr = 1 << iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrInvisible
	AttrStruck
	AttrWrap
	AttrWide
	AttrWDummy

	AttrNone Attr = 0
)

// Has reports whether all flags in f are set.
func (a Attr) Has(f Attr) bool { return a&f == f }

// Cell is one character position.
type Cell struct {
	// Rune is the codepoint, or 0 for an empty cell.
	Rune uint32

	Attr Attr

	// FG and BG are palette indices.
	FG, BG uint32
}

// Blank reports whether c draws no glyph.
func (c Cell) Blank() bool {
	return c.Rune == 0 || c.Rune == ' '
}

// WinMode is a set of window mode flags set by the engine.
type WinMode uint32

// Window modes.
const (
	ModeVisible WinMode = 1 << iota
	ModeFocused
	ModeAppKeypad
	ModeMouseBtn
	ModeMouseMotion
	ModeReverse
	ModeKbdLock
	ModeHide
	ModeAppCursor
	ModeMouseSGR
	Mode8Bit
	ModeBlink
	ModeFBlink
	ModeFocus
	ModeMouseX10
	ModeMouseMany
	ModeBrcktPaste
	ModeNumLock

	ModeMouse = ModeMouseBtn | ModeMouseMotion | ModeMouseX10 | ModeMouseMany
)

// CursorStyle is the shape drawn for the cursor.
type CursorStyle uint8

// Cursor styles.
const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
)

// String returns the style name.
func (s CursorStyle) String() string {
	switch s {
	case CursorBlock:
		return "block"
	case CursorUnderline:
		return "underline"
	case CursorBar:
		return "bar"
	default:
		return "unknown"
	}
}

// Cursor is the text cursor position and shape. The glyph under the cursor
// is the grid cell at Col, Row.
type Cursor struct {
	Col, Row int
	Style    CursorStyle
}

// Package input carries user input from the event-capture side to the render
// loop.
//
// Producers push Events into a Queue from any goroutine; the render loop
// drains the queue once per frame. TcellTranslator turns tcell events into
// Events for hosts that read input through tcell.
package input

import (
	"errors"
	"fmt"
)

// Type identifies the kind of an Event.
type Type uint8

// Event types.
const (
	KeyDown Type = iota + 1
	MouseLeftDown
	MouseRightDown
	MouseMove
	MouseEnter
	MouseLeave
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case KeyDown:
		return "keyDown"
	case MouseLeftDown:
		return "mouseLeftDown"
	case MouseRightDown:
		return "mouseRightDown"
	case MouseMove:
		return "mouseMove"
	case MouseEnter:
		return "mouseEnter"
	case MouseLeave:
		return "mouseLeave"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// IsMouse reports whether t carries a mouse payload.
func (t Type) IsMouse() bool {
	return t >= MouseLeftDown && t <= MouseLeave
}

// Modifier is a set of modifier keys held during an event.
type Modifier uint16

// Modifier keys.
const (
	ModCapsLock Modifier = 1 << iota
	ModShift
	ModControl
	ModOption
	ModCommand
	ModNumericPad
	ModHelp
	ModFunction
)

// Button identifies a mouse button.
type Button uint8

// Mouse buttons.
const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// KeyPayload is the data of a KeyDown event.
type KeyPayload struct {
	// Code is the host's key code for non-character keys.
	Code uint16

	// Text is the UTF-8 text the key produced, empty for non-character keys.
	Text []byte

	// Rune is the typed character, or 0 for non-character keys.
	Rune rune
}

// MousePayload is the data of a mouse event.
type MousePayload struct {
	// Col and Row are the grid cell under the pointer.
	Col, Row int

	// Button is the pressed button for button-down events and the held
	// button for motion.
	Button Button

	// Dragged is set on MouseMove while a button is held.
	Dragged bool

	// Clicks is the click count for button-down events.
	Clicks int
}

// ErrInvalidEvent is returned when a payload does not match the event type.
var ErrInvalidEvent = errors.New("input: payload does not match event type")

// Event is one input event. X and Y are the pointer position in surface
// pixels. Only the payload matching Type is set.
type Event struct {
	Type Type
	X, Y float32
	Mods Modifier

	key   KeyPayload
	mouse MousePayload
}

// NewKeyEvent returns a KeyDown event.
func NewKeyEvent(k KeyPayload, mods Modifier) Event {
	return Event{Type: KeyDown, Mods: mods, key: k}
}

// NewMouseEvent returns a mouse event of type t at x, y.
func NewMouseEvent(t Type, x, y float32, mods Modifier, m MousePayload) (Event, error) {
	if !t.IsMouse() {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, t)
	}
	return Event{Type: t, X: x, Y: y, Mods: mods, mouse: m}, nil
}

// Key returns the key payload of a KeyDown event.
func (e Event) Key() (KeyPayload, bool) {
	if e.Type != KeyDown {
		return KeyPayload{}, false
	}
	return e.key, true
}

// Mouse returns the payload of a mouse event.
func (e Event) Mouse() (MousePayload, bool) {
	if !e.Type.IsMouse() {
		return MousePayload{}, false
	}
	return e.mouse, true
}

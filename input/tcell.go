package input

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// TcellTranslator converts tcell events into Events.
//
// tcell reports mouse positions in cells and button state rather than
// transitions, so the translator keeps the previous button mask to detect
// presses and tracks whether the pointer is inside the window to synthesize
// MouseEnter. Focus loss becomes MouseLeave.
type TcellTranslator struct {
	cellW, cellH float32

	inside  bool
	buttons tcell.ButtonMask
	col     int
	row     int
}

// NewTcellTranslator returns a translator that maps cell positions to pixels
// using the given cell size.
func NewTcellTranslator(cellW, cellH float32) *TcellTranslator {
	return &TcellTranslator{cellW: cellW, cellH: cellH, col: -1, row: -1}
}

// SetCellSize updates the cell size after a font or resize change.
func (t *TcellTranslator) SetCellSize(cellW, cellH float32) {
	t.cellW, t.cellH = cellW, cellH
}

// Translate returns the events for ev. Unrelated tcell events, button
// releases and wheel motion yield nothing.
func (t *TcellTranslator) Translate(ev tcell.Event) []Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		k := KeyPayload{Code: uint16(ev.Key())}
		if ev.Key() == tcell.KeyRune {
			k.Rune = ev.Rune()
			k.Text = utf8.AppendRune(nil, k.Rune)
		}
		return []Event{NewKeyEvent(k, modifiers(ev.Modifiers()))}

	case *tcell.EventMouse:
		return t.mouse(ev)

	case *tcell.EventFocus:
		if ev.Focused || !t.inside {
			return nil
		}
		t.inside = false
		t.buttons = 0
		return []Event{{Type: MouseLeave, X: t.px(t.col), Y: t.py(t.row), mouse: MousePayload{Col: t.col, Row: t.row}}}
	}
	return nil
}

func (t *TcellTranslator) mouse(ev *tcell.EventMouse) []Event {
	col, row := ev.Position()
	mods := modifiers(ev.Modifiers())
	p := MousePayload{Col: col, Row: row}
	x, y := t.px(col), t.py(row)
	mk := func(typ Type, p MousePayload) Event {
		return Event{Type: typ, X: x, Y: y, Mods: mods, mouse: p}
	}

	var out []Event
	if !t.inside {
		t.inside = true
		out = append(out, mk(MouseEnter, p))
	}

	buttons := ev.Buttons() &^ tcell.WheelUp &^ tcell.WheelDown &^ tcell.WheelLeft &^ tcell.WheelRight
	pressed := buttons &^ t.buttons
	t.buttons = buttons

	switch {
	case pressed&tcell.Button1 != 0:
		out = append(out, mk(MouseLeftDown, MousePayload{Col: col, Row: row, Button: ButtonLeft, Clicks: 1}))
	case pressed&tcell.Button2 != 0:
		out = append(out, mk(MouseRightDown, MousePayload{Col: col, Row: row, Button: ButtonRight, Clicks: 1}))
	case col != t.col || row != t.row:
		p.Button = heldButton(buttons)
		p.Dragged = p.Button != ButtonNone
		out = append(out, mk(MouseMove, p))
	}
	t.col, t.row = col, row
	return out
}

// heldButton returns the primary button in mask.
func heldButton(mask tcell.ButtonMask) Button {
	switch {
	case mask&tcell.Button1 != 0:
		return ButtonLeft
	case mask&tcell.Button2 != 0:
		return ButtonRight
	case mask&tcell.Button3 != 0:
		return ButtonMiddle
	}
	return ButtonNone
}

func (t *TcellTranslator) px(col int) float32 { return float32(col) * t.cellW }
func (t *TcellTranslator) py(row int) float32 { return float32(row) * t.cellH }

// Feed translates ev and pushes the result into q. Every event is offered
// to the queue; overflow is reported once.
func (t *TcellTranslator) Feed(q *Queue, ev tcell.Event) error {
	var first error
	for _, e := range t.Translate(ev) {
		if err := q.Push(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func modifiers(m tcell.ModMask) Modifier {
	var out Modifier
	if m&tcell.ModShift != 0 {
		out |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= ModControl
	}
	if m&tcell.ModAlt != 0 {
		out |= ModOption
	}
	if m&tcell.ModMeta != 0 {
		out |= ModCommand
	}
	return out
}

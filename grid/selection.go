package grid

// SelectionKind distinguishes line-wrapped from block selections.
type SelectionKind uint8

// Selection kinds.
const (
	SelectRegular SelectionKind = iota
	SelectRectangular
)

// Point is a cell position.
type Point struct {
	Col, Row int
}

// Selection is a range of selected cells. Begin and End are normalized so
// that Begin precedes End in reading order (for rectangular selections,
// Begin is the top-left corner).
type Selection struct {
	Kind       SelectionKind
	Begin, End Point
	active     bool
}

// NewSelection returns the selection spanning from a to b in either order.
func NewSelection(kind SelectionKind, a, b Point) Selection {
	s := Selection{Kind: kind, active: true}
	if kind == SelectRectangular {
		s.Begin = Point{Col: min(a.Col, b.Col), Row: min(a.Row, b.Row)}
		s.End = Point{Col: max(a.Col, b.Col), Row: max(a.Row, b.Row)}
		return s
	}
	if a.Row < b.Row || (a.Row == b.Row && a.Col <= b.Col) {
		s.Begin, s.End = a, b
	} else {
		s.Begin, s.End = b, a
	}
	return s
}

// Active reports whether the selection covers anything.
func (s Selection) Active() bool { return s.active }

// Contains reports whether the cell at col, row is selected.
func (s Selection) Contains(col, row int) bool {
	if !s.active || row < s.Begin.Row || row > s.End.Row {
		return false
	}
	if s.Kind == SelectRectangular {
		return col >= s.Begin.Col && col <= s.End.Col
	}
	if row == s.Begin.Row && col < s.Begin.Col {
		return false
	}
	if row == s.End.Row && col > s.End.Col {
		return false
	}
	return true
}

package atlas

import "image"

// shelf is one horizontal band of the packer.
type shelf struct {
	y      int // top edge
	height int // tallest item so far, including padding
	nextX  int // next free x position
}

// shelfPacker places rectangles left to right on horizontal shelves,
// opening a new shelf below the last one when a rectangle does not fit.
// Glyph bitmaps of one font are similar in height, which keeps waste low.
type shelfPacker struct {
	width   int
	height  int
	padding int
	shelves []shelf
}

func newShelfPacker(width, height, padding int) *shelfPacker {
	if padding < 0 {
		padding = 0
	}
	return &shelfPacker{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// allocate reserves a w×h region. ok is false when the packer is full or
// the rectangle is wider than the packer.
func (p *shelfPacker) allocate(w, h int) (image.Rectangle, bool) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	pw, ph := w+p.padding, h+p.padding
	if pw > p.width || ph > p.height {
		return image.Rectangle{}, false
	}

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.nextX+pw > p.width {
			continue
		}
		// A shelf can only grow while it is still empty.
		if ph > s.height && s.nextX > 0 {
			continue
		}
		r := image.Rect(s.nextX, s.y, s.nextX+w, s.y+h)
		s.nextX += pw
		if ph > s.height {
			s.height = ph
		}
		return r, true
	}

	y := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		y = last.y + last.height
	}
	if y+ph > p.height {
		return image.Rectangle{}, false
	}
	p.shelves = append(p.shelves, shelf{y: y, height: ph, nextX: pw})
	return image.Rect(0, y, w, y+h), true
}

// usedHeight is the bottom edge of the lowest shelf.
func (p *shelfPacker) usedHeight() int {
	if len(p.shelves) == 0 {
		return 0
	}
	last := p.shelves[len(p.shelves)-1]
	return last.y + last.height
}

// nextPow2 rounds v up to a power of two (minimum 1).
func nextPow2(v int) int {
	n := 1
	for n < v {
		n <<= 1
	}
	return n
}

package palette

import "fmt"

// Capacity is the fixed size of the palette table. It matches the palette
// array in the GPU uniform block.
const Capacity = 1024

// NumANSI is the number of default ANSI slots populated by InitDefaults.
const NumANSI = 16

// Entry is one occupied palette slot.
type Entry struct {
	// Name is the color's primary name. Colors interned by value carry a
	// synthetic name of the form color_R_G_B_A.
	Name string

	// Color is the slot's value.
	Color RGBA16
}

// Theme names the colors installed by InitTheme.
type Theme struct {
	// ANSI holds the 8 normal and 8 bright colors, in escape-code order.
	ANSI [NumANSI]string

	// Cursor and ReverseCursor are the cursor colors used in normal and
	// reverse-video mode.
	Cursor        string
	ReverseCursor string

	// Foreground and Background are the default cell colors.
	Foreground string
	Background string
}

// DefaultTheme returns st's stock dark palette.
func DefaultTheme() Theme {
	return Theme{
		ANSI: [NumANSI]string{
			// 8 normal colors
			"black", "red3", "green3", "yellow3",
			"blue2", "magenta3", "cyan3", "gray90",
			// 8 bright colors
			"gray50", "red", "green", "yellow",
			"#5c5cff", "magenta", "cyan", "white",
		},
		Cursor:        "#cccccc",
		ReverseCursor: "#555555",
		Foreground:    "gray90",
		Background:    "black",
	}
}

// Defaults are the palette indices of the theme's special colors.
type Defaults struct {
	FG            uint32
	BG            uint32
	Cursor        uint32
	ReverseCursor uint32
}

// Allocator is a fixed-capacity color table.
//
// The zero value is not usable; create one with New.
type Allocator struct {
	entries [Capacity]Entry
	n       int

	// byName indexes primary names and aliases.
	byName map[string]uint32

	dirty       bool
	initialized bool
	defaults    Defaults
	generation  uint64
}

// New returns an empty palette. Call InitDefaults or InitTheme before
// handing indices to the terminal engine.
func New() *Allocator {
	return &Allocator{
		byName: make(map[string]uint32, 64),
	}
}

// Reset discards every entry. All indices issued so far become invalid;
// Generation changes so holders can detect it.
func (a *Allocator) Reset() {
	a.entries = [Capacity]Entry{}
	a.n = 0
	clear(a.byName)
	a.initialized = false
	a.defaults = Defaults{}
	a.dirty = true
	a.generation++
}

// Generation identifies the current table lifetime.
func (a *Allocator) Generation() uint64 { return a.generation }

// Len returns the number of occupied slots.
func (a *Allocator) Len() int { return a.n }

// Dirty reports whether the table changed since the last ExportFloats.
func (a *Allocator) Dirty() bool { return a.dirty }

// MarkDirty forces the next ExportFloats, e.g. after the GPU lost its copy.
func (a *Allocator) MarkDirty() { a.dirty = true }

// Initialized reports whether the default slots are populated.
func (a *Allocator) Initialized() bool { return a.initialized }

// Defaults returns the special color indices installed by InitTheme.
func (a *Allocator) Defaults() (Defaults, bool) {
	return a.defaults, a.initialized
}

// Lookup returns the entry at index i.
func (a *Allocator) Lookup(i uint32) (Entry, bool) {
	if int(i) >= a.n {
		return Entry{}, false
	}
	return a.entries[i], true
}

// InitDefaults installs DefaultTheme. See InitTheme.
func (a *Allocator) InitDefaults() error {
	return a.InitTheme(DefaultTheme())
}

// InitTheme populates slots 0..15 with the theme's ANSI colors and interns
// the cursor and default colors. It runs once per table lifetime: later
// calls are no-ops until Reset.
//
// The ANSI colors are written positionally, so slot i is always ANSI color
// i even when two theme entries share a value. The table must be empty.
func (a *Allocator) InitTheme(t Theme) error {
	if a.initialized {
		return nil
	}
	if a.n != 0 {
		return fmt.Errorf("palette: init on non-empty table (%d entries)", a.n)
	}

	var ansi [NumANSI]RGBA16
	for i, name := range t.ANSI {
		c, err := systemOrLiteral(name)
		if err != nil {
			return fmt.Errorf("palette: ansi color %d: %w", i, err)
		}
		ansi[i] = c
	}
	for i, c := range ansi {
		a.entries[i] = Entry{Name: t.ANSI[i], Color: c}
		if _, taken := a.byName[t.ANSI[i]]; !taken {
			a.byName[t.ANSI[i]] = uint32(i)
		}
	}
	a.n = NumANSI
	a.dirty = true

	var d Defaults
	for _, s := range []struct {
		name string
		dst  *uint32
	}{
		{t.Foreground, &d.FG},
		{t.Background, &d.BG},
		{t.Cursor, &d.Cursor},
		{t.ReverseCursor, &d.ReverseCursor},
	} {
		idx, err := a.ResolveByName(s.name)
		if err != nil {
			return err
		}
		*s.dst = idx
	}
	a.defaults = d
	a.initialized = true
	return nil
}

// ResolveByName returns the index for name, interning it on first use.
//
// Lookup is case-sensitive. Names starting with '#' are parsed as literals;
// other unknown names are looked up in the system color database. The name
// is then registered as an alias of the resulting slot.
func (a *Allocator) ResolveByName(name string) (uint32, error) {
	if idx, ok := a.byName[name]; ok {
		return idx, nil
	}
	c, err := systemOrLiteral(name)
	if err != nil {
		return 0, err
	}
	idx, err := a.ResolveByColor(c)
	if err != nil {
		return 0, err
	}
	a.byName[name] = idx
	if a.entries[idx].Name == c.String() {
		a.entries[idx].Name = name
	}
	return idx, nil
}

// ResolveByColor returns the index holding exactly c, appending a new entry
// if none does. It fails with ErrPaletteExhausted when the table is full,
// leaving the table unchanged.
func (a *Allocator) ResolveByColor(c RGBA16) (uint32, error) {
	for i := 0; i < a.n; i++ {
		if a.entries[i].Color == c {
			return uint32(i), nil
		}
	}
	if a.n >= Capacity {
		return 0, fmt.Errorf("%w: cannot intern %s", ErrPaletteExhausted, c)
	}
	idx := uint32(a.n)
	name := c.String()
	a.entries[idx] = Entry{Name: name, Color: c}
	a.n++
	if _, taken := a.byName[name]; !taken {
		a.byName[name] = idx
	}
	a.dirty = true
	return idx, nil
}

// ResolveIndexedColor returns the palette index for xterm color i.
// Indices 0..15 are the default slots; 16..255 are synthesized by
// IndexedColor and interned.
func (a *Allocator) ResolveIndexedColor(i int) (uint32, error) {
	if i >= 0 && i < NumANSI {
		if !a.initialized {
			return 0, ErrNotInitialized
		}
		return uint32(i), nil
	}
	c, ok := IndexedColor(i)
	if !ok {
		return 0, fmt.Errorf("%w: indexed color %d", ErrIndexOutOfRange, i)
	}
	return a.ResolveByColor(c)
}

// SetName recolors slot i with the color named by name and binds name to
// it. Cells already holding index i change color on the next export.
//
// Names stay unique: a slot that carried name before falls back to its
// synthetic name, and aliases of slot i are dropped when the color changes.
func (a *Allocator) SetName(i uint32, name string) error {
	if int(i) >= a.n {
		return fmt.Errorf("%w: slot %d of %d", ErrIndexOutOfRange, i, a.n)
	}
	old, bound := a.byName[name]
	var c RGBA16
	if bound {
		c = a.entries[old].Color
	} else {
		var err error
		if c, err = systemOrLiteral(name); err != nil {
			return err
		}
	}

	if bound && old != i && a.entries[old].Name == name {
		synth := a.entries[old].Color.String()
		a.entries[old].Name = synth
		if _, taken := a.byName[synth]; !taken {
			a.byName[synth] = old
		}
	}
	if a.entries[i].Color != c {
		for alias, idx := range a.byName {
			if idx == i {
				delete(a.byName, alias)
			}
		}
	}
	a.entries[i] = Entry{Name: name, Color: c}
	a.byName[name] = i
	a.dirty = true
	return nil
}

// ExportFloats writes every occupied entry to dst as normalized floats,
// clears the dirty flag and returns the number of entries written.
func (a *Allocator) ExportFloats(dst *[Capacity][4]float32) int {
	for i := 0; i < a.n; i++ {
		dst[i] = a.entries[i].Color.Floats()
	}
	a.dirty = false
	return a.n
}

func systemOrLiteral(name string) (RGBA16, error) {
	if len(name) > 0 && name[0] == LiteralMarker {
		return ParseLiteral(name)
	}
	if c, ok := lookupSystemColor(name); ok {
		return c, nil
	}
	return RGBA16{}, &UnknownColorError{Name: name}
}

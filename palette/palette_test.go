package palette

import (
	"errors"
	"testing"
)

func newInitialized(t *testing.T) *Allocator {
	t.Helper()
	a := New()
	if err := a.InitDefaults(); err != nil {
		t.Fatalf("InitDefaults() error = %v", err)
	}
	return a
}

func TestResolveByColorIdempotent(t *testing.T) {
	a := New()
	colors := []RGBA16{
		{R: 1, G: 2, B: 3, A: 0xffff},
		{R: 0xffff, A: 0xffff},
		{R: 1, G: 2, B: 3, A: 0},
		{},
	}
	first := make([]uint32, len(colors))
	for i, c := range colors {
		idx, err := a.ResolveByColor(c)
		if err != nil {
			t.Fatalf("ResolveByColor(%v) error = %v", c, err)
		}
		first[i] = idx
	}
	seen := make(map[uint32]bool)
	for i, idx := range first {
		if seen[idx] {
			t.Errorf("index %d issued twice", idx)
		}
		seen[idx] = true
		again, err := a.ResolveByColor(colors[i])
		if err != nil {
			t.Fatalf("ResolveByColor(%v) second call error = %v", colors[i], err)
		}
		if again != idx {
			t.Errorf("ResolveByColor(%v) = %d, want %d", colors[i], again, idx)
		}
	}
	if a.Len() != len(colors) {
		t.Errorf("Len() = %d, want %d", a.Len(), len(colors))
	}
}

func TestResolveByColorSyntheticName(t *testing.T) {
	a := New()
	c := RGBA16{R: 10, G: 20, B: 30, A: 40}
	idx, err := a.ResolveByColor(c)
	if err != nil {
		t.Fatal(err)
	}
	e, ok := a.Lookup(idx)
	if !ok {
		t.Fatal("Lookup() ok = false")
	}
	if e.Name != "color_10_20_30_40" {
		t.Errorf("Name = %q, want color_10_20_30_40", e.Name)
	}
	byName, err := a.ResolveByName("color_10_20_30_40")
	if err != nil || byName != idx {
		t.Errorf("ResolveByName(synthetic) = %d, %v; want %d, nil", byName, err, idx)
	}
	if !a.Dirty() {
		t.Error("table should be dirty after an append")
	}
}

func TestPaletteExhausted(t *testing.T) {
	a := New()
	for i := 0; i < Capacity; i++ {
		idx, err := a.ResolveByColor(RGBA16{R: uint16(i), A: 0xffff})
		if err != nil {
			t.Fatalf("color %d: unexpected error %v", i, err)
		}
		if idx != uint32(i) {
			t.Fatalf("color %d: index = %d, want contiguous %d", i, idx, i)
		}
	}

	_, err := a.ResolveByColor(RGBA16{R: 0xffff, G: 0xffff, A: 0xffff})
	if !errors.Is(err, ErrPaletteExhausted) {
		t.Fatalf("1025th color error = %v, want ErrPaletteExhausted", err)
	}
	if a.Len() != Capacity {
		t.Errorf("Len() = %d after exhaustion, want %d", a.Len(), Capacity)
	}
	for _, i := range []int{0, 511, Capacity - 1} {
		idx, err := a.ResolveByColor(RGBA16{R: uint16(i), A: 0xffff})
		if err != nil || idx != uint32(i) {
			t.Errorf("existing color %d = %d, %v; want unchanged index", i, idx, err)
		}
	}
}

func TestIndexedColor(t *testing.T) {
	tests := []struct {
		i    int
		want RGBA16
	}{
		{16, RGBA16{0, 0, 0, 0xffff}},
		{21, RGBA16{0, 0, 0xffff, 0xffff}},
		{22, RGBA16{0, 0x5f5f, 0, 0xffff}},
		{196, RGBA16{0xffff, 0, 0, 0xffff}},
		{231, RGBA16{0xffff, 0xffff, 0xffff, 0xffff}},
		{232, RGBA16{0x0808, 0x0808, 0x0808, 0xffff}},
		{255, RGBA16{0x0808 + 0x0a0a*23, 0x0808 + 0x0a0a*23, 0x0808 + 0x0a0a*23, 0xffff}},
	}
	for _, tt := range tests {
		got, ok := IndexedColor(tt.i)
		if !ok {
			t.Errorf("IndexedColor(%d) ok = false", tt.i)
			continue
		}
		if got != tt.want {
			t.Errorf("IndexedColor(%d) = %+v, want %+v", tt.i, got, tt.want)
		}
	}
	for _, i := range []int{-1, 0, 15, 256} {
		if _, ok := IndexedColor(i); ok {
			t.Errorf("IndexedColor(%d) ok = true, want false", i)
		}
	}
}

func TestResolveIndexedColor(t *testing.T) {
	a := New()
	if _, err := a.ResolveIndexedColor(3); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ResolveIndexedColor(3) before init error = %v, want ErrNotInitialized", err)
	}
	if err := a.InitDefaults(); err != nil {
		t.Fatal(err)
	}
	if idx, err := a.ResolveIndexedColor(3); err != nil || idx != 3 {
		t.Errorf("ResolveIndexedColor(3) = %d, %v; want 3, nil", idx, err)
	}
	idx, err := a.ResolveIndexedColor(21)
	if err != nil {
		t.Fatal(err)
	}
	e, _ := a.Lookup(idx)
	if e.Color != (RGBA16{0, 0, 0xffff, 0xffff}) {
		t.Errorf("slot for 21 holds %+v", e.Color)
	}
	if _, err := a.ResolveIndexedColor(300); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("ResolveIndexedColor(300) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestInitDefaults(t *testing.T) {
	a := newInitialized(t)
	theme := DefaultTheme()
	for i, name := range theme.ANSI {
		idx, err := a.ResolveByName(name)
		if err != nil {
			t.Fatalf("ResolveByName(%q) error = %v", name, err)
		}
		if idx != uint32(i) {
			t.Errorf("ResolveByName(%q) = %d, want %d", name, idx, i)
		}
	}

	d, ok := a.Defaults()
	if !ok {
		t.Fatal("Defaults() ok = false after init")
	}
	if d.FG != 7 || d.BG != 0 {
		t.Errorf("Defaults FG/BG = %d/%d, want 7/0", d.FG, d.BG)
	}
	if d.Cursor != NumANSI || d.ReverseCursor != NumANSI+1 {
		t.Errorf("cursor slots = %d/%d, want %d/%d", d.Cursor, d.ReverseCursor, NumANSI, NumANSI+1)
	}

	n := a.Len()
	if err := a.InitDefaults(); err != nil {
		t.Fatalf("second InitDefaults() error = %v", err)
	}
	if a.Len() != n {
		t.Errorf("second InitDefaults changed Len from %d to %d", n, a.Len())
	}
}

func TestInitThemeUnknownName(t *testing.T) {
	a := New()
	theme := DefaultTheme()
	theme.ANSI[4] = "no-such-color"
	err := a.InitTheme(theme)
	if !errors.Is(err, ErrUnknownColorName) {
		t.Fatalf("InitTheme() error = %v, want ErrUnknownColorName", err)
	}
	if a.Len() != 0 || a.Initialized() {
		t.Errorf("failed init left %d entries, initialized=%v", a.Len(), a.Initialized())
	}
}

func TestInitThemeNonEmpty(t *testing.T) {
	a := New()
	if _, err := a.ResolveByColor(RGBA16{A: 1}); err != nil {
		t.Fatal(err)
	}
	if err := a.InitDefaults(); err == nil {
		t.Error("InitDefaults() on non-empty table should fail")
	}
}

func TestResolveByNameScenario(t *testing.T) {
	a := newInitialized(t)

	i, err := a.ResolveByName("red3")
	if err != nil {
		t.Fatal(err)
	}
	j, err := a.ResolveByName("#5c5cff")
	if err != nil {
		t.Fatal(err)
	}
	if i == j {
		t.Errorf("red3 and #5c5cff share index %d", i)
	}
	again, err := a.ResolveByName("red3")
	if err != nil || again != i {
		t.Errorf("re-resolving red3 = %d, %v; want %d", again, err, i)
	}
}

func TestResolveByName(t *testing.T) {
	a := newInitialized(t)

	t.Run("literal dedups against existing value", func(t *testing.T) {
		idx, err := a.ResolveByName("#cd0000")
		if err != nil {
			t.Fatal(err)
		}
		if idx != 1 {
			t.Errorf("#cd0000 = %d, want red3's slot 1", idx)
		}
	})

	t.Run("short literal", func(t *testing.T) {
		idx, err := a.ResolveByName("#fff")
		if err != nil {
			t.Fatal(err)
		}
		if idx != 15 {
			t.Errorf("#fff = %d, want white's slot 15", idx)
		}
	})

	t.Run("system color becomes alias", func(t *testing.T) {
		idx, err := a.ResolveByName("orange")
		if err != nil {
			t.Fatal(err)
		}
		e, _ := a.Lookup(idx)
		if e.Name != "orange" {
			t.Errorf("entry name = %q, want orange", e.Name)
		}
		if e.Color != RGB8(255, 165, 0) {
			t.Errorf("orange = %+v", e.Color)
		}
	})

	t.Run("case sensitive", func(t *testing.T) {
		_, err := a.ResolveByName("Red3")
		var ue *UnknownColorError
		if !errors.As(err, &ue) || ue.Name != "Red3" {
			t.Errorf("ResolveByName(Red3) error = %v, want UnknownColorError", err)
		}
	})

	t.Run("bad literal", func(t *testing.T) {
		_, err := a.ResolveByName("#zzzzzz")
		if !errors.Is(err, ErrUnknownColorName) {
			t.Errorf("error = %v, want ErrUnknownColorName", err)
		}
	})
}

func TestExportFloats(t *testing.T) {
	a := newInitialized(t)
	var dst [Capacity][4]float32
	n := a.ExportFloats(&dst)
	if n != a.Len() {
		t.Errorf("ExportFloats() = %d, want %d", n, a.Len())
	}
	if a.Dirty() {
		t.Error("Dirty() = true after export")
	}
	if dst[0] != [4]float32{0, 0, 0, 1} {
		t.Errorf("black = %v", dst[0])
	}
	if dst[15] != [4]float32{1, 1, 1, 1} {
		t.Errorf("white = %v", dst[15])
	}
	if _, err := a.ResolveByColor(RGBA16{R: 0x8000, A: 0xffff}); err != nil {
		t.Fatal(err)
	}
	if !a.Dirty() {
		t.Error("Dirty() = false after append")
	}
	if _, err := a.ResolveByName("red3"); err != nil {
		t.Fatal(err)
	}
}

func TestReset(t *testing.T) {
	a := newInitialized(t)
	gen := a.Generation()
	a.Reset()
	if a.Len() != 0 || a.Initialized() {
		t.Errorf("after Reset Len=%d initialized=%v", a.Len(), a.Initialized())
	}
	if a.Generation() == gen {
		t.Error("Generation unchanged by Reset")
	}
	if _, err := a.ResolveByName("color_0_0_0_65535"); !errors.Is(err, ErrUnknownColorName) {
		t.Errorf("stale synthetic name resolved after Reset: %v", err)
	}
	if err := a.InitDefaults(); err != nil {
		t.Errorf("InitDefaults after Reset error = %v", err)
	}
}

func TestSetName(t *testing.T) {
	a := newInitialized(t)
	var dst [Capacity][4]float32
	a.ExportFloats(&dst)

	if err := a.SetName(1, "#00ff00"); err != nil {
		t.Fatalf("SetName error = %v", err)
	}
	e, _ := a.Lookup(1)
	if e.Color != RGB8(0, 0xff, 0) || e.Name != "#00ff00" {
		t.Errorf("slot 1 = %+v", e)
	}
	if idx, err := a.ResolveByName("#00ff00"); err != nil || idx != 1 {
		t.Errorf("ResolveByName(#00ff00) = %d, %v; want 1", idx, err)
	}
	if !a.Dirty() {
		t.Error("Dirty() = false after SetName")
	}

	if err := a.SetName(2, "white"); err != nil {
		t.Fatal(err)
	}
	if e, _ := a.Lookup(2); e.Color != RGB8(0xff, 0xff, 0xff) {
		t.Errorf("slot 2 = %v, want white", e.Color)
	}

	// Rebinding a name owned by another slot moves it, and the aliases of
	// the recolored slot stop resolving to it.
	if err := a.SetName(1, "red"); err != nil {
		t.Fatal(err)
	}
	if e, _ := a.Lookup(9); e.Name == "red" || e.Color != RGB8(0xff, 0, 0) {
		t.Errorf("slot 9 = %+v, want red color under a synthetic name", e)
	}
	if idx, err := a.ResolveByName("red"); err != nil || idx != 1 {
		t.Errorf("ResolveByName(red) = %d, %v; want 1", idx, err)
	}
	idx, err := a.ResolveByName("#00ff00")
	if err != nil {
		t.Fatal(err)
	}
	if idx == 1 {
		t.Error("#00ff00 still resolves to recolored slot 1")
	}
	if e, _ := a.Lookup(idx); e.Color != RGB8(0, 0xff, 0) {
		t.Errorf("ResolveByName(#00ff00) color = %v", e.Color)
	}
	seen := make(map[string]int)
	for i := 0; i < a.Len(); i++ {
		e, _ := a.Lookup(uint32(i))
		if prev, dup := seen[e.Name]; dup {
			t.Errorf("name %q held by slots %d and %d", e.Name, prev, i)
		}
		seen[e.Name] = i
	}

	if err := a.SetName(Capacity-1, "red"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetName(unoccupied) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := a.SetName(3, "no-such-color"); !errors.Is(err, ErrUnknownColorName) {
		t.Errorf("SetName(unknown) error = %v, want ErrUnknownColorName", err)
	}
}

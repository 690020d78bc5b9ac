package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gterm"
	"github.com/gogpu/gterm/grid"
)

func TestRunStdin(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("hello\n\tworld\n")
	if err := run([]string{"--cols", "20", "--rows", "4"}, in, &out); err != nil {
		t.Fatalf("run error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"grid      20x4 cells, 2 lines read", "palette", "quads"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestRunFileWithGPU(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "screen.txt")
	if err := os.WriteFile(path, []byte("\x1b[1;31mred\x1b[0m plain\n\x1b[38;2;1;2;3mrgb\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run([]string{"--gpu", "--size", "12", path}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out.String(), "2 lines read") {
		t.Errorf("unexpected report:\n%s", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--font", "no-such-font"}, strings.NewReader(""), &out); err == nil {
		t.Error("unknown font accepted")
	}
	if err := run([]string{"a", "b"}, strings.NewReader(""), &out); err == nil {
		t.Error("two file arguments accepted")
	}
	if err := run([]string{"--bogus"}, strings.NewReader(""), &out); err == nil {
		t.Error("unknown flag accepted")
	}
	if err := run([]string{"--help"}, strings.NewReader(""), &out); err != nil {
		t.Errorf("--help error = %v", err)
	}
}

func TestWriterSGR(t *testing.T) {
	r, err := gterm.New(20, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	d := r.Defaults()

	w := newWriter(r)
	w.line("a\x1b[1;32mb\x1b[7mc\x1b[0md")
	w.line("\x1b[48;5;21mx\x1b[49m\ty")

	g := r.Grid()
	if c := g.Cell(0, 0); c.FG != d.FG || c.Attr != grid.AttrNone {
		t.Errorf("cell a = %+v", c)
	}
	if c := g.Cell(1, 0); c.FG != 2 || !c.Attr.Has(grid.AttrBold) {
		t.Errorf("cell b = %+v, want green bold", c)
	}
	if c := g.Cell(2, 0); !c.Attr.Has(grid.AttrReverse) || !c.Attr.Has(grid.AttrBold) {
		t.Errorf("cell c = %+v, want bold reverse", c)
	}
	if c := g.Cell(3, 0); c.FG != d.FG || c.Attr != grid.AttrNone {
		t.Errorf("cell d = %+v, want reset", c)
	}
	if c := g.Cell(0, 1); c.BG == d.BG || c.Rune != 'x' {
		t.Errorf("cell x = %+v, want indexed background", c)
	}
	if c := g.Cell(8, 1); c.Rune != 'y' || c.BG != d.BG {
		t.Errorf("cell after tab = %+v, want y at column 8", c)
	}

	w.line("third")
	if w.line("overflow") {
		t.Error("line past the last row accepted")
	}
	if w.lines != 3 {
		t.Errorf("lines = %d", w.lines)
	}
}

func TestDecoder(t *testing.T) {
	tests := []struct {
		charset string
		in      string
		want    string
	}{
		{"utf-8", "café", "café"},
		{"latin1", "caf\xe9", "café"},
		{"cp437", "\xb0\xdb", "░█"},
		{"cp1252", "\x80", "€"},
	}
	for _, tt := range tests {
		t.Run(tt.charset, func(t *testing.T) {
			enc, err := decoder(tt.charset)
			if err != nil {
				t.Fatal(err)
			}
			got, err := enc.NewDecoder().String(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("decoded %q, want %q", got, tt.want)
			}
		})
	}
	if _, err := decoder("ebcdic"); err == nil {
		t.Error("unknown charset accepted")
	}
}

func TestRunLatin1(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--charset", "latin1", "--cols", "8", "--rows", "2"}, strings.NewReader("caf\xe9\n"), &out); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if strings.Contains(out.String(), "missing glyphs") {
		t.Errorf("latin1 input produced missing glyphs:\n%s", out.String())
	}
}

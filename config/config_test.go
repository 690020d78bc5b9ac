package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gterm/palette"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Grid.Cols != 80 || cfg.Grid.Rows != 24 {
		t.Errorf("grid = %dx%d, want 80x24", cfg.Grid.Cols, cfg.Grid.Rows)
	}
	if cfg.Font.Builtin != "gomono" || cfg.Font.PixelHeight != 16 {
		t.Errorf("font = %+v", cfg.Font)
	}
	if _, enabled, _ := cfg.LogLevel(); enabled {
		t.Error("logging enabled by default")
	}
	if cfg.Theme() != palette.DefaultTheme() {
		t.Error("default config does not yield the default theme")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
font:
  pixel_height: 20
palette:
  background: "#1d1f21"
  cursor: red
grid:
  cols: 100
input:
  queue_capacity: 64
log:
  level: debug
`))
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if cfg.Font.PixelHeight != 20 || cfg.Font.Builtin != "gomono" {
		t.Errorf("font = %+v", cfg.Font)
	}
	if cfg.Grid.Cols != 100 || cfg.Grid.Rows != 24 {
		t.Errorf("grid = %+v, want rows kept at default", cfg.Grid)
	}
	theme := cfg.Theme()
	if theme.Background != "#1d1f21" || theme.Cursor != "red" || theme.Foreground != "gray90" {
		t.Errorf("theme = %+v", theme)
	}
	level, enabled, err := cfg.LogLevel()
	if err != nil || !enabled || level != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, %v, %v", level, enabled, err)
	}
	if got := len(cfg.Options()); got != 3 {
		t.Errorf("Options() returned %d options, want 3 without a surface", got)
	}
}

func TestParseANSI(t *testing.T) {
	colors := make([]string, palette.NumANSI)
	for i := range colors {
		colors[i] = "#10101" + string(rune('0'+i%10))
	}
	data := "palette:\n  ansi: [" + strings.Join(quoteAll(colors), ", ") + "]\n"
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if cfg.Theme().ANSI[3] != "#101013" {
		t.Errorf("ANSI[3] = %q", cfg.Theme().ANSI[3])
	}
}

func quoteAll(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = `"` + v + `"`
	}
	return out
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown builtin", "font: {builtin: comic}", "font.builtin"},
		{"pixel height", "font: {pixel_height: 0}", "font.pixel_height"},
		{"short ansi", "palette: {ansi: [red, green]}", "palette.ansi"},
		{"bad color", "palette: {foreground: not-a-color}", "palette"},
		{"queue", "input: {queue_capacity: 0}", "input.queue_capacity"},
		{"grid cols", "grid: {cols: 1000}", "grid.cols"},
		{"grid rows", "grid: {rows: 0}", "grid.rows"},
		{"half surface", "surface: {width: 640}", "surface"},
		{"log level", "log: {level: loud}", "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	if _, err := Parse([]byte("grid: [")); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gterm.yaml")
	if err := os.WriteFile(path, []byte("grid: {cols: 40, rows: 10}\nsurface: {width: 320, height: 200}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error = %v", err)
	}
	r, err := cfg.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer error = %v", err)
	}
	defer r.Close()
	if r.Grid().Cols() != 40 || r.Surface().Width != 320 {
		t.Errorf("renderer grid %d cols, surface %+v", r.Grid().Cols(), r.Surface())
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

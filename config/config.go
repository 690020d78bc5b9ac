// Package config loads gterm settings from a YAML file.
//
// Unset fields keep the values from Default, so a file only needs to name
// what it changes:
//
//	font:
//	  builtin: gomono
//	  pixel_height: 18
//	palette:
//	  background: "#1d1f21"
//	  foreground: "#c5c8c6"
//	grid:
//	  cols: 120
//	  rows: 40
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/gterm"
	"github.com/gogpu/gterm/atlas"
	"github.com/gogpu/gterm/grid"
	"github.com/gogpu/gterm/input"
	"github.com/gogpu/gterm/palette"
)

// Config is the renderer configuration.
type Config struct {
	// Font selects the font loaded into slot 0.
	Font FontConfig `yaml:"font"`

	// Palette overrides theme colors.
	Palette PaletteConfig `yaml:"palette"`

	// Input configures the event queue.
	Input InputConfig `yaml:"input"`

	// Grid is the initial terminal size in cells.
	Grid GridConfig `yaml:"grid"`

	// Surface is the drawable size in pixels. Zero fits the grid.
	Surface SurfaceConfig `yaml:"surface"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// FontConfig selects a font. Path takes precedence over Builtin.
type FontConfig struct {
	// Builtin names an embedded font (see atlas.BuiltinNames).
	// Default: gomono
	Builtin string `yaml:"builtin"`

	// Path is a TTF or OTF file.
	Path string `yaml:"path"`

	// PixelHeight is the baked glyph height.
	// Default: 16
	PixelHeight int `yaml:"pixel_height"`
}

// PaletteConfig holds color names or #literals. Empty values keep the
// default theme's color.
type PaletteConfig struct {
	// ANSI lists the 16 escape-code colors. It is either empty or
	// complete.
	ANSI []string `yaml:"ansi"`

	Cursor        string `yaml:"cursor"`
	ReverseCursor string `yaml:"reverse_cursor"`
	Foreground    string `yaml:"foreground"`
	Background    string `yaml:"background"`
}

// InputConfig configures the event queue.
type InputConfig struct {
	// QueueCapacity is the number of pending events kept between frames.
	// Default: 256
	QueueCapacity int `yaml:"queue_capacity"`
}

// GridConfig is a size in cells.
type GridConfig struct {
	// Default: 80
	Cols int `yaml:"cols"`
	// Default: 24
	Rows int `yaml:"rows"`
}

// SurfaceConfig is a size in pixels.
type SurfaceConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn, error or off.
	// Default: off
	Level string `yaml:"level"`
}

// LogOff disables logging.
const LogOff = "off"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Font: FontConfig{
			Builtin:     gterm.DefaultFont,
			PixelHeight: gterm.DefaultPixelHeight,
		},
		Input: InputConfig{
			QueueCapacity: input.DefaultCapacity,
		},
		Grid: GridConfig{
			Cols: 80,
			Rows: 24,
		},
		Log: LogConfig{
			Level: LogOff,
		},
	}
}

// LoadFile reads, parses and validates the file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Font.Path == "" && !slices.Contains(atlas.BuiltinNames(), c.Font.Builtin) {
		errs = append(errs, fmt.Errorf("font.builtin must be one of: %v", atlas.BuiltinNames()))
	}
	if c.Font.PixelHeight < 1 || c.Font.PixelHeight > atlas.MaxPixelHeight {
		errs = append(errs, fmt.Errorf("font.pixel_height must be in 1..%d", atlas.MaxPixelHeight))
	}

	if n := len(c.Palette.ANSI); n != 0 && n != palette.NumANSI {
		errs = append(errs, fmt.Errorf("palette.ansi must list %d colors, got %d", palette.NumANSI, n))
	} else if err := palette.New().InitTheme(c.Theme()); err != nil {
		errs = append(errs, fmt.Errorf("palette: %w", err))
	}

	if c.Input.QueueCapacity < 1 {
		errs = append(errs, errors.New("input.queue_capacity must be positive"))
	}

	if c.Grid.Cols < 1 || c.Grid.Cols > grid.MaxCols {
		errs = append(errs, fmt.Errorf("grid.cols must be in 1..%d", grid.MaxCols))
	}
	if c.Grid.Rows < 1 || c.Grid.Rows > grid.MaxRows {
		errs = append(errs, fmt.Errorf("grid.rows must be in 1..%d", grid.MaxRows))
	}

	if (c.Surface.Width == 0) != (c.Surface.Height == 0) || c.Surface.Width < 0 || c.Surface.Height < 0 {
		errs = append(errs, errors.New("surface.width and surface.height must both be positive or both unset"))
	}

	if _, _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Theme returns the default theme with the configured colors applied.
func (c *Config) Theme() palette.Theme {
	t := palette.DefaultTheme()
	if len(c.Palette.ANSI) == palette.NumANSI {
		copy(t.ANSI[:], c.Palette.ANSI)
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&t.Cursor, c.Palette.Cursor)
	override(&t.ReverseCursor, c.Palette.ReverseCursor)
	override(&t.Foreground, c.Palette.Foreground)
	override(&t.Background, c.Palette.Background)
	return t
}

// FontDescriptor returns the configured font.
func (c *Config) FontDescriptor() atlas.Descriptor {
	if c.Font.Path != "" {
		return atlas.File(c.Font.Path)
	}
	return atlas.Builtin(c.Font.Builtin)
}

// LogLevel returns the configured level. enabled is false for "off".
func (c *Config) LogLevel() (level slog.Level, enabled bool, err error) {
	if c.Log.Level == "" || c.Log.Level == LogOff {
		return 0, false, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, false, fmt.Errorf("log.level: %w", err)
	}
	return level, true, nil
}

// Options returns the renderer options for the configuration.
func (c *Config) Options() []gterm.Option {
	opts := []gterm.Option{
		gterm.WithTheme(c.Theme()),
		gterm.WithFont(c.FontDescriptor(), c.Font.PixelHeight),
		gterm.WithQueueCapacity(c.Input.QueueCapacity),
	}
	if c.Surface.Width > 0 && c.Surface.Height > 0 {
		opts = append(opts, gterm.WithSurface(c.Surface.Width, c.Surface.Height))
	}
	return opts
}

// NewRenderer creates a renderer from the configuration.
func (c *Config) NewRenderer(extra ...gterm.Option) (*gterm.Renderer, error) {
	return gterm.New(c.Grid.Cols, c.Grid.Rows, append(c.Options(), extra...)...)
}

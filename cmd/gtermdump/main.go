// Command gtermdump compiles a text file into a terminal frame and reports
// what the renderer would draw.
//
// The file is written into the grid line by line. SGR color sequences
// (ESC [ ... m) are honored so themed output can be inspected; other
// escape sequences are dropped. With --gpu the frame is also uploaded and
// drawn on a no-op GPU device, which exercises the whole pipeline without
// a display.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/spf13/pflag"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/gogpu/gterm"
	"github.com/gogpu/gterm/config"
	"github.com/gogpu/gterm/frame"
	"github.com/gogpu/gterm/internal/gpu"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "gtermdump: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	config  string
	cols    int
	rows    int
	font    string
	size    int
	charset string
	useGPU  bool
	verbose bool
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var f flags
	flagSet := pflag.NewFlagSet("gtermdump", pflag.ContinueOnError)
	flagSet.SetOutput(stdout)
	flagSet.StringVarP(&f.config, "config", "c", "", "YAML config file")
	flagSet.IntVar(&f.cols, "cols", 0, "grid columns (default from config)")
	flagSet.IntVar(&f.rows, "rows", 0, "grid rows (default from config)")
	flagSet.StringVar(&f.font, "font", "", "builtin font name or path to a TTF/OTF file")
	flagSet.IntVar(&f.size, "size", 0, "font pixel height")
	flagSet.StringVar(&f.charset, "charset", "utf-8", "input encoding: utf-8, latin1, cp437 or cp1252")
	flagSet.BoolVar(&f.useGPU, "gpu", false, "upload and draw on a no-op GPU device")
	flagSet.BoolVarP(&f.verbose, "verbose", "v", false, "log renderer diagnostics to stderr")
	flagSet.Usage = func() {
		fmt.Fprintf(stdout, "Usage: gtermdump [flags] [file]\n\nReads stdin when file is omitted or \"-\".\n\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 1 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(1))
	}

	dec, err := decoder(f.charset)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(&f)
	if err != nil {
		return err
	}
	if err := configureLogging(cfg, f.verbose); err != nil {
		return err
	}

	in := stdin
	if name := flagSet.Arg(0); name != "" && name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	r, err := cfg.NewRenderer()
	if err != nil {
		return err
	}
	defer r.Close()

	w := newWriter(r)
	scanner := bufio.NewScanner(transform.NewReader(in, dec.NewDecoder()))
	for scanner.Scan() {
		if !w.line(scanner.Text()) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var device hal.Device
	if f.useGPU {
		dev, queue, cleanup, err := openNoopDevice()
		if err != nil {
			return err
		}
		defer cleanup()
		if err := r.AttachGPU(dev, queue, gputypes.TextureFormatRGBA8Unorm); err != nil {
			return err
		}
		device = dev
	}

	st, err := r.Frame(nil)
	if err != nil {
		return err
	}
	if device != nil {
		if err := draw(r, device); err != nil {
			return err
		}
	}
	report(stdout, r, st, w.lines)
	return nil
}

// decoder returns the encoding named by charset.
func decoder(charset string) (encoding.Encoding, error) {
	switch charset {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "cp437":
		return charmap.CodePage437, nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unknown charset %q", charset)
}

func loadConfig(f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		loaded, err := config.LoadFile(f.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if f.cols > 0 {
		cfg.Grid.Cols = f.cols
	}
	if f.rows > 0 {
		cfg.Grid.Rows = f.rows
	}
	if f.size > 0 {
		cfg.Font.PixelHeight = f.size
	}
	if f.font != "" {
		if _, err := os.Stat(f.font); err == nil {
			cfg.Font.Path = f.font
		} else {
			cfg.Font.Path = ""
			cfg.Font.Builtin = f.font
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configureLogging(cfg *config.Config, verbose bool) error {
	level, enabled, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level, enabled = slog.LevelDebug, true
	}
	if enabled {
		gterm.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	} else {
		gterm.SetLogger(nil)
	}
	return nil
}

func openNoopDevice() (hal.Device, hal.Queue, func(), error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, errors.New("no GPU adapter")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("open device: %w", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup, nil
}

func draw(r *gterm.Renderer, device hal.Device) error {
	s := r.Surface()
	target, err := gpu.NewTarget(device, uint32(s.Width), uint32(s.Height), gputypes.TextureFormatRGBA8Unorm) //nolint:gosec // surface size is positive and bounded
	if err != nil {
		return err
	}
	defer target.Destroy()
	return r.Draw(target.View())
}

func report(out io.Writer, r *gterm.Renderer, st frame.Stats, lines int) {
	g := r.Grid()
	s := r.Surface()
	info, _ := r.Fonts().Info(r.Fonts().Active())
	d := r.Diagnostics()
	b := r.Buffers()

	fmt.Fprintf(out, "grid      %dx%d cells, %d lines read\n", g.Cols(), g.Rows(), lines)
	fmt.Fprintf(out, "surface   %dx%d px, cell %dx%d px\n", s.Width, s.Height, info.CellWidth, info.LineHeight())
	fmt.Fprintf(out, "palette   %d of 1024 slots\n", r.Palette().Len())
	fmt.Fprintf(out, "quads     %d of %d (background %d, glyph %d, cursor %d)\n",
		st.Quads, b.Capacity, st.Backgrounds, st.Glyphs, st.Cursor)
	fmt.Fprintf(out, "buffers   %d vertex bytes, %d indices\n", len(b.ActiveVertices())*frame.VertexStride, b.IndexCount())
	if st.Missing > 0 || st.Dropped > 0 {
		fmt.Fprintf(out, "degraded  %d missing glyphs, %d dropped quads\n", st.Missing, st.Dropped)
	}
	if d.UnknownColors > 0 || d.PaletteExhausted > 0 {
		fmt.Fprintf(out, "colors    %d unknown, %d exhausted\n", d.UnknownColors, d.PaletteExhausted)
	}
}

package gterm

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/gterm/atlas"
	"github.com/gogpu/gterm/frame"
	"github.com/gogpu/gterm/grid"
	"github.com/gogpu/gterm/input"
	"github.com/gogpu/gterm/internal/gpu"
	"github.com/gogpu/gterm/palette"
)

// EventHandler receives the input events drained by Frame.
type EventHandler func(input.Event)

// Renderer owns the palette, fonts, grid, frame compiler and event queue
// of one terminal, and optionally its GPU resources.
//
// Everything except Queue and Diagnostics must be used from the render
// goroutine.
type Renderer struct {
	pal      *palette.Allocator
	fonts    *atlas.Table
	grid     *grid.Grid
	comp     *frame.Compiler
	queue    *input.Queue
	defaults palette.Defaults
	theme    palette.Theme

	surface     frame.Surface
	autoSurface bool

	platform Platform
	bell     func()
	diag     counters

	// lastDropped is the queue drop count already reported.
	lastDropped uint64

	pipeline *gpu.Pipeline
	uploader *gpu.Uploader
	// uploaded is set while the uploader holds the compiler's current frame.
	uploaded bool
	// paletteDirty is set from a compile that refreshed the palette block
	// until an upload writes it.
	paletteDirty bool

	closed bool
}

// New creates a renderer for a cols×rows grid. The palette is initialized
// from the theme and the configured font is loaded into slot 0.
func New(cols, rows int, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pal := palette.New()
	if err := pal.InitTheme(o.theme); err != nil {
		return nil, fmt.Errorf("gterm: init palette: %w", err)
	}
	defs, _ := pal.Defaults()

	fonts := atlas.NewTable(o.atlasOpts...)
	if _, err := fonts.LoadFont(o.font, o.pixelHeight); err != nil {
		return nil, fmt.Errorf("gterm: %w", err)
	}

	g, err := grid.New(cols, rows, grid.Cell{Rune: ' ', FG: defs.FG, BG: defs.BG})
	if err != nil {
		return nil, fmt.Errorf("gterm: %w", err)
	}
	comp := frame.NewCompiler(o.compilerOpts...)
	if err := comp.Resize(cols, rows); err != nil {
		return nil, fmt.Errorf("gterm: %w", err)
	}

	r := &Renderer{
		pal:         pal,
		fonts:       fonts,
		grid:        g,
		comp:        comp,
		queue:       input.NewQueue(o.queueCapacity),
		defaults:    defs,
		theme:       o.theme,
		surface:     o.surface,
		autoSurface: o.surface.Width <= 0 || o.surface.Height <= 0,
		platform:    o.platform,
		bell:        o.bell,
	}
	if r.autoSurface {
		r.fitSurface()
	}

	info, _ := fonts.Info(fonts.Active())
	Logger().Info("gterm: renderer created",
		"cols", cols, "rows", rows,
		"font", o.font.Name, "pixel_height", o.pixelHeight,
		"cell", fmt.Sprintf("%dx%d", info.CellWidth, info.LineHeight()),
		"palette", pal.Len())
	return r, nil
}

// fitSurface sizes the surface to the grid with the active font.
func (r *Renderer) fitSurface() {
	info, ok := r.fonts.Info(r.fonts.Active())
	if !ok {
		return
	}
	r.surface = frame.Surface{
		Width:  r.grid.Cols() * info.CellWidth,
		Height: r.grid.Rows() * info.LineHeight(),
	}
}

// Grid returns the cell grid the engine writes.
func (r *Renderer) Grid() *grid.Grid { return r.grid }

// Palette returns the color table.
func (r *Renderer) Palette() *palette.Allocator { return r.pal }

// Fonts returns the font table.
func (r *Renderer) Fonts() *atlas.Table { return r.fonts }

// Queue returns the event queue. It is safe to push from any goroutine.
func (r *Renderer) Queue() *input.Queue { return r.queue }

// Defaults returns the palette indices of the default colors.
func (r *Renderer) Defaults() palette.Defaults { return r.defaults }

// Surface returns the drawable size in pixels.
func (r *Renderer) Surface() frame.Surface { return r.surface }

// Buffers returns the last compiled frame.
func (r *Renderer) Buffers() *frame.Buffers { return r.comp.Buffers() }

// Diagnostics returns a snapshot of the non-fatal error counters.
func (r *Renderer) Diagnostics() Diagnostics {
	d := r.diag.snapshot()
	d.DroppedEvents = r.queue.Dropped()
	return d
}

// Resize changes the grid dimensions and reallocates the frame buffers.
func (r *Renderer) Resize(cols, rows int) error {
	if r.closed {
		return ErrClosed
	}
	if err := r.grid.Resize(cols, rows); err != nil {
		return fmt.Errorf("gterm: %w", err)
	}
	if err := r.comp.Resize(cols, rows); err != nil {
		return fmt.Errorf("gterm: %w", err)
	}
	if r.autoSurface {
		r.fitSurface()
	}
	r.uploaded = false
	Logger().Info("gterm: resized", "cols", cols, "rows", rows, "quads", r.comp.Capacity())
	return nil
}

// SetSurface sets the drawable size in pixels. Once set, Resize no longer
// fits the surface to the grid.
func (r *Renderer) SetSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gterm: %w: %dx%d", frame.ErrNoSurface, width, height)
	}
	r.surface = frame.Surface{Width: width, Height: height}
	r.autoSurface = false
	return nil
}

// LoadFont bakes another font into the next free slot.
func (r *Renderer) LoadFont(desc atlas.Descriptor, pixelHeight int) (int, error) {
	slot, err := r.fonts.LoadFont(desc, pixelHeight)
	if err != nil {
		return -1, fmt.Errorf("gterm: %w", err)
	}
	Logger().Info("gterm: font loaded", "slot", slot, "font", desc.Name, "pixel_height", pixelHeight)
	return slot, nil
}

// SetFont makes slot the font used for drawing.
func (r *Renderer) SetFont(slot int) error {
	if err := r.fonts.SetActive(slot); err != nil {
		return fmt.Errorf("gterm: %w", err)
	}
	if r.autoSurface {
		r.fitSurface()
	}
	return nil
}

// AttachGPU creates the render pipeline and buffers on device. Frames
// compiled afterwards are uploaded to it and can be drawn with Draw.
func (r *Renderer) AttachGPU(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) error {
	if r.closed {
		return ErrClosed
	}
	r.detachGPU()

	p, err := gpu.NewPipeline(device, format)
	if err != nil {
		return fmt.Errorf("gterm: %w", err)
	}
	u, err := gpu.NewUploader(device, queue, p)
	if err != nil {
		p.Destroy()
		return fmt.Errorf("gterm: %w", err)
	}
	r.pipeline, r.uploader = p, u
	r.uploaded = false
	// The new uniform buffer has no palette yet.
	r.comp.Invalidate()
	Logger().Info("gterm: GPU attached", "format", format)
	return nil
}

func (r *Renderer) detachGPU() {
	if r.uploader != nil {
		r.uploader.Destroy()
		r.uploader = nil
	}
	if r.pipeline != nil {
		r.pipeline.Destroy()
		r.pipeline = nil
	}
}

// Frame runs one frame: pending events are delivered to handler, the grid
// is compiled, and the result is uploaded when a GPU is attached.
//
// A frame truncated to the quad capacity is not an error; it is counted
// in Diagnostics and logged. handler may be nil to discard events.
func (r *Renderer) Frame(handler EventHandler) (frame.Stats, error) {
	if r.closed {
		return frame.Stats{}, ErrClosed
	}
	if handler == nil {
		handler = func(input.Event) {}
	}
	r.queue.Drain(handler)
	if dropped := r.queue.Dropped(); dropped != r.lastDropped {
		Logger().Warn("gterm: input events dropped", "dropped", dropped-r.lastDropped, "capacity", r.queue.Cap())
		r.lastDropped = dropped
	}

	st, err := r.comp.Compile(r.frameInput())
	var overflow *frame.OverflowError
	switch {
	case errors.As(err, &overflow):
		r.diag.overflowFrames.Add(1)
		r.diag.droppedQuads.Add(uint64(overflow.Dropped)) //nolint:gosec // non-negative count
		Logger().Warn("gterm: frame truncated", "capacity", overflow.Capacity, "dropped", overflow.Dropped)
	case err != nil:
		return st, fmt.Errorf("gterm: compile: %w", err)
	}
	if st.Missing > 0 {
		r.diag.missingGlyphs.Add(uint64(st.Missing)) //nolint:gosec // non-negative count
	}
	if !st.Reused {
		r.uploaded = false
	}
	if st.PaletteChanged {
		r.paletteDirty = true
	}

	if r.uploader != nil && !r.uploaded {
		if err := r.upload(); err != nil {
			return st, fmt.Errorf("gterm: upload: %w", err)
		}
	}
	return st, nil
}

func (r *Renderer) frameInput() frame.Input {
	return frame.Input{
		Grid:     r.grid,
		Palette:  r.pal,
		Atlas:    r.fonts,
		Surface:  r.surface,
		Defaults: r.defaults,
	}
}

func (r *Renderer) upload() error {
	b := r.comp.Buffers()
	if r.paletteDirty {
		// A failed upload leaves a later reused frame to carry the palette.
		b.PaletteChanged = true
	}
	if err := r.uploader.EnsureBuffers(b); err != nil {
		return err
	}
	if err := r.uploader.UploadFonts(r.fonts); err != nil {
		return err
	}
	if err := r.uploader.Submit(b); err != nil {
		return err
	}
	r.uploaded = true
	r.paletteDirty = false
	return nil
}

// Draw renders the last uploaded frame into view, cleared to the frame's
// default background.
func (r *Renderer) Draw(view hal.TextureView) error {
	if r.closed {
		return ErrClosed
	}
	if r.uploader == nil {
		return ErrNoGPU
	}
	return r.uploader.Draw(view, r.clearColor(), r.fonts.Active())
}

func (r *Renderer) clearColor() gputypes.Color {
	e, ok := r.pal.Lookup(r.comp.Buffers().Background)
	if !ok {
		return gputypes.Color{A: 1}
	}
	f := e.Color.Floats()
	c := gputypes.Color{R: float64(f[0]), G: float64(f[1]), B: float64(f[2]), A: float64(f[3])}
	if r.pipeline != nil && gpu.IsSRGB(r.pipeline.Format()) {
		c.R, c.G, c.B = colorful.Color{R: c.R, G: c.G, B: c.B}.LinearRgb()
	}
	return c
}

// Close releases GPU resources. The renderer cannot be used afterwards.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.detachGPU()
	r.closed = true
}

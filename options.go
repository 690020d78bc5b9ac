package gterm

import (
	"github.com/gogpu/gterm/atlas"
	"github.com/gogpu/gterm/frame"
	"github.com/gogpu/gterm/input"
	"github.com/gogpu/gterm/palette"
)

// Default renderer configuration.
const (
	DefaultFont        = "gomono"
	DefaultPixelHeight = 16
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := gterm.New(80, 24,
//		gterm.WithFont(atlas.File("/usr/share/fonts/TTF/Hack-Regular.ttf"), 18),
//		gterm.WithQueueCapacity(1024),
//	)
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	theme         palette.Theme
	font          atlas.Descriptor
	pixelHeight   int
	queueCapacity int
	surface       frame.Surface
	platform      Platform
	bell          func()
	compilerOpts  []frame.Option
	atlasOpts     []atlas.Option
}

func defaultOptions() options {
	return options{
		theme:         palette.DefaultTheme(),
		font:          atlas.Builtin(DefaultFont),
		pixelHeight:   DefaultPixelHeight,
		queueCapacity: input.DefaultCapacity,
	}
}

// WithTheme installs t instead of the default palette.
func WithTheme(t palette.Theme) Option {
	return func(o *options) {
		o.theme = t
	}
}

// WithFont selects the first font loaded, at pixelHeight.
func WithFont(desc atlas.Descriptor, pixelHeight int) Option {
	return func(o *options) {
		o.font = desc
		o.pixelHeight = pixelHeight
	}
}

// WithQueueCapacity sets the event queue size. Non-positive values select
// input.DefaultCapacity.
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		o.queueCapacity = n
	}
}

// WithQuadCapacity fixes the compiled frame capacity in quads instead of
// sizing it from the grid.
func WithQuadCapacity(n int) Option {
	return func(o *options) {
		o.compilerOpts = append(o.compilerOpts, frame.WithQuadCapacity(n))
	}
}

// WithBakeWidth sets the width of baked font bitmaps.
func WithBakeWidth(w int) Option {
	return func(o *options) {
		o.atlasOpts = append(o.atlasOpts, atlas.WithBakeWidth(w))
	}
}

// WithSurface sets the initial drawable size in pixels. Without it the
// surface is sized to fit the grid with the loaded font.
func WithSurface(width, height int) Option {
	return func(o *options) {
		o.surface = frame.Surface{Width: width, Height: height}
	}
}

// WithPlatform routes the platform hooks (clipboard, titles, pointer,
// cursor shape) to p.
func WithPlatform(p Platform) Option {
	return func(o *options) {
		o.platform = p
	}
}

// WithBell sets the function called by Bell.
func WithBell(fn func()) Option {
	return func(o *options) {
		o.bell = fn
	}
}

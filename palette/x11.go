package palette

import "golang.org/x/image/colornames"

// x11Colors is the subset of the X11 rgb.txt database that terminal
// configurations commonly reference. Values are 8-bit as in rgb.txt.
//
// X11 and SVG disagree on a few names ("green", "gray"); X11 wins here
// because the default ANSI table is written in X11 terms.
var x11Colors = map[string][3]uint8{
	"black":   {0, 0, 0},
	"white":   {255, 255, 255},
	"red":     {255, 0, 0},
	"green":   {0, 255, 0},
	"blue":    {0, 0, 255},
	"yellow":  {255, 255, 0},
	"magenta": {255, 0, 255},
	"cyan":    {0, 255, 255},
	"gray":    {190, 190, 190},
	"grey":    {190, 190, 190},

	"red1": {255, 0, 0}, "red2": {238, 0, 0}, "red3": {205, 0, 0}, "red4": {139, 0, 0},
	"green1": {0, 255, 0}, "green2": {0, 238, 0}, "green3": {0, 205, 0}, "green4": {0, 139, 0},
	"blue1": {0, 0, 255}, "blue2": {0, 0, 238}, "blue3": {0, 0, 205}, "blue4": {0, 0, 139},
	"yellow1": {255, 255, 0}, "yellow2": {238, 238, 0}, "yellow3": {205, 205, 0}, "yellow4": {139, 139, 0},
	"magenta1": {255, 0, 255}, "magenta2": {238, 0, 238}, "magenta3": {205, 0, 205}, "magenta4": {139, 0, 139},
	"cyan1": {0, 255, 255}, "cyan2": {0, 238, 238}, "cyan3": {0, 205, 205}, "cyan4": {0, 139, 139},

	"gray0": {0, 0, 0}, "gray10": {26, 26, 26}, "gray20": {51, 51, 51},
	"gray30": {77, 77, 77}, "gray40": {102, 102, 102}, "gray50": {127, 127, 127},
	"gray60": {153, 153, 153}, "gray70": {179, 179, 179}, "gray80": {204, 204, 204},
	"gray85": {217, 217, 217}, "gray90": {229, 229, 229}, "gray95": {242, 242, 242},
	"gray100": {255, 255, 255},
	"grey0":   {0, 0, 0}, "grey10": {26, 26, 26}, "grey20": {51, 51, 51},
	"grey30": {77, 77, 77}, "grey40": {102, 102, 102}, "grey50": {127, 127, 127},
	"grey60": {153, 153, 153}, "grey70": {179, 179, 179}, "grey80": {204, 204, 204},
	"grey85": {217, 217, 217}, "grey90": {229, 229, 229}, "grey95": {242, 242, 242},
	"grey100": {255, 255, 255},
}

// lookupSystemColor resolves a color name against the X11 database first
// and the SVG/CSS names second.
func lookupSystemColor(name string) (RGBA16, bool) {
	if v, ok := x11Colors[name]; ok {
		return RGB8(v[0], v[1], v[2]), true
	}
	if c, ok := colornames.Map[name]; ok {
		return FromColor(c), true
	}
	return RGBA16{}, false
}

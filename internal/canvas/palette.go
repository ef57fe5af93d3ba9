package canvas

import "image/color"

// Marker colors. Black and White are the extremal colors swapped by a mode
// toggle; the rest never change.
var (
	Black  = color.RGBA{0, 0, 0, 255}
	White  = color.RGBA{255, 255, 255, 255}
	Red    = color.RGBA{255, 0, 0, 255}
	Blue   = color.RGBA{30, 144, 255, 255}
	Green  = color.RGBA{0, 255, 0, 255}
	Yellow = color.RGBA{255, 255, 0, 255}
	Pink   = color.RGBA{255, 0, 255, 255}
)

// Marker is a named drawing color.
type Marker struct {
	Name  string
	Color color.RGBA
}

// Markers is the full marker set in display order.
var Markers = []Marker{
	{"black", Black},
	{"white", White},
	{"red", Red},
	{"blue", Blue},
	{"green", Green},
	{"yellow", Yellow},
	{"pink", Pink},
}

// IsExtremal reports whether c is pure black or pure white (alpha ignored).
func IsExtremal(c color.RGBA) bool {
	return (c.R == 0 && c.G == 0 && c.B == 0) || (c.R == 255 && c.G == 255 && c.B == 255)
}

// Swap returns the color a mode toggle turns c into.
func Swap(c color.RGBA) color.RGBA {
	switch {
	case c.R == 0 && c.G == 0 && c.B == 0:
		return color.RGBA{255, 255, 255, c.A}
	case c.R == 255 && c.G == 255 && c.B == 255:
		return color.RGBA{0, 0, 0, c.A}
	}
	return c
}

// Palette returns the markers offered in mode m. The marker matching the
// background is left out since drawing with it is indistinguishable from
// erasing.
func (m Mode) Palette() []Marker {
	bg := m.Background()
	out := make([]Marker, 0, len(Markers)-1)
	for _, mk := range Markers {
		if mk.Color != bg {
			out = append(out, mk)
		}
	}
	return out
}

// MarkerByName looks up a marker color by name.
func MarkerByName(name string) (color.RGBA, bool) {
	for _, mk := range Markers {
		if mk.Name == name {
			return mk.Color, true
		}
	}
	return color.RGBA{}, false
}

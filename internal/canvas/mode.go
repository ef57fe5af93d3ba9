package canvas

import "image/color"

// Mode selects the board's appearance. The numeric value is the tag stored
// in byte 0 of the canvas file.
type Mode uint8

const (
	// Blackboard draws light chalk on a black surface.
	Blackboard Mode = 0

	// Whiteboard draws dark marker on a white surface.
	Whiteboard Mode = 1
)

// IsValid reports whether m is a known mode tag.
func (m Mode) IsValid() bool {
	return m == Blackboard || m == Whiteboard
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Blackboard:
		return "Blackboard"
	case Whiteboard:
		return "Whiteboard"
	default:
		return "Unknown"
	}
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Whiteboard {
		return Blackboard
	}
	return Whiteboard
}

// Background returns the fill color of empty and erased canvas areas.
func (m Mode) Background() color.RGBA {
	if m == Whiteboard {
		return White
	}
	return Black
}

// PenColor returns the default drawing color: the extremal color that
// contrasts with the background.
func (m Mode) PenColor() color.RGBA {
	if m == Whiteboard {
		return Black
	}
	return White
}

// Toggle swaps pure black and pure white in an RGBA buffer, in place.
// Only the RGB channels are compared; alpha is preserved. Every other
// color is left byte-identical, so applying Toggle twice restores the
// original buffer.
func Toggle(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		r, g, b := pix[i], pix[i+1], pix[i+2]
		switch {
		case r == 0 && g == 0 && b == 0:
			pix[i], pix[i+1], pix[i+2] = 255, 255, 255
		case r == 255 && g == 255 && b == 255:
			pix[i], pix[i+1], pix[i+2] = 0, 0, 0
		}
	}
}

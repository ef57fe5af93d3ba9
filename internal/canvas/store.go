// Package canvas implements the board's pixel store: one contiguous RGBA
// buffer addressed by logical coordinates on a horizontal cylinder.
//
// Logical x wraps modulo the canvas width; y is bounded to [0, height) and
// writes outside that range are dropped. The package also owns the on-disk
// canvas file format, the blackboard/whiteboard color transform and the
// brush rasterizer.
//
// A Store has a single writer (the edit path on the main loop) and may be
// read concurrently by frame workers while no write is in progress. It does
// no locking of its own.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Default canvas geometry.
const (
	DefaultWidth  = 80000
	DefaultHeight = 1000

	// MaxDimension bounds either side of a canvas accepted from disk.
	MaxDimension = 100000
)

// ErrDimensions is returned for canvas sizes that are non-positive or
// exceed MaxDimension.
var ErrDimensions = errors.New("canvas: invalid dimensions")

// Store owns the canvas pixel buffer.
type Store struct {
	width  int
	height int
	mode   Mode
	pix    []byte

	// gen increases on every mutation; dirty tracking compares it with
	// the generation last persisted.
	gen    uint64
	damage *Damage
}

// New allocates a width x height canvas filled with the mode background.
func New(width, height int, mode Mode) (*Store, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if !mode.IsValid() {
		mode = Blackboard
	}
	s := &Store{
		width:  width,
		height: height,
		mode:   mode,
		pix:    make([]byte, width*height*4),
		damage: NewDamage(width, height),
	}
	s.fill(mode.Background())
	return s, nil
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	return nil
}

// Width returns the canvas circumference in pixels.
func (s *Store) Width() int { return s.width }

// Height returns the number of canvas rows.
func (s *Store) Height() int { return s.height }

// Mode returns the current board mode.
func (s *Store) Mode() Mode { return s.mode }

// Pix returns the live buffer, W*H*4 bytes in row-major RGBA order.
// Callers must not write to it; use the Store methods instead.
func (s *Store) Pix() []byte { return s.pix }

// Generation returns a counter that increases with every mutation.
func (s *Store) Generation() uint64 { return s.gen }

// Damage returns the tile tracker marked by writes.
func (s *Store) Damage() *Damage { return s.damage }

// Header returns the file header describing the store.
func (s *Store) Header() Header {
	return Header{Mode: s.mode, Width: s.width, Height: s.height}
}

// Wrap maps any logical x into [0, width).
func (s *Store) Wrap(x int) int { return wrap(x, s.width) }

func wrap(x, n int) int {
	x %= n
	if x < 0 {
		x += n
	}
	return x
}

func (s *Store) offset(x, y int) int {
	return (y*s.width + wrap(x, s.width)) * 4
}

func (s *Store) touch(x, y, w, h int) {
	s.gen++
	s.damage.MarkRect(x, y, w, h)
}

// ReadPixel returns the color at logical (x, y). Rows outside the canvas
// read as transparent black.
func (s *Store) ReadPixel(x, y int) color.RGBA {
	if y < 0 || y >= s.height {
		return color.RGBA{}
	}
	i := s.offset(x, y)
	return color.RGBA{s.pix[i], s.pix[i+1], s.pix[i+2], s.pix[i+3]}
}

// WritePixel sets the color at logical (x, y). Rows outside the canvas are
// ignored.
func (s *Store) WritePixel(x, y int, c color.RGBA) {
	if y < 0 || y >= s.height {
		return
	}
	s.set(s.offset(x, y), c)
	s.touch(x, y, 1, 1)
}

func (s *Store) set(i int, c color.RGBA) {
	s.pix[i] = c.R
	s.pix[i+1] = c.G
	s.pix[i+2] = c.B
	s.pix[i+3] = c.A
}

// ReadRegion copies the logical rectangle r into a new buffer of
// r.Dx()*r.Dy()*4 bytes. Columns wrap across the seam; rows outside the
// canvas are left zero.
func (s *Store) ReadRegion(r image.Rectangle) []byte {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]byte, w*h*4)
	for row := range h {
		y := r.Min.Y + row
		if y < 0 || y >= s.height {
			continue
		}
		s.copyRow(out[row*w*4:(row+1)*w*4], y, r.Min.X, false)
	}
	return out
}

// WriteRegion writes buf, laid out as r.Dx()*r.Dy() RGBA pixels, into the
// logical rectangle r. Columns wrap; rows outside the canvas are skipped.
// A short buffer writes only the rows it fully covers.
func (s *Store) WriteRegion(r image.Rectangle, buf []byte) {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	h = min(h, len(buf)/(w*4))
	wrote := false
	for row := range h {
		y := r.Min.Y + row
		if y < 0 || y >= s.height {
			continue
		}
		s.copyRow(buf[row*w*4:(row+1)*w*4], y, r.Min.X, true)
		wrote = true
	}
	if wrote {
		s.touch(r.Min.X, r.Min.Y, min(w, s.width), h)
	}
}

// copyRow moves len(line)/4 pixels between line and canvas row y starting
// at logical column x, splitting at the seam. toCanvas selects direction.
func (s *Store) copyRow(line []byte, y, x int, toCanvas bool) {
	rowStart := y * s.width * 4
	col := wrap(x, s.width)
	for len(line) > 0 {
		n := min(len(line)/4, s.width-col)
		canvasRow := s.pix[rowStart+col*4 : rowStart+(col+n)*4]
		if toCanvas {
			copy(canvasRow, line[:n*4])
		} else {
			copy(line[:n*4], canvasRow)
		}
		line = line[n*4:]
		col = 0
	}
}

func (s *Store) fill(c color.RGBA) {
	if len(s.pix) < 4 {
		return
	}
	s.set(0, c)
	for filled := 4; filled < len(s.pix); filled *= 2 {
		copy(s.pix[filled:], s.pix[:filled])
	}
}

// Clear fills the canvas with the mode background.
func (s *Store) Clear() {
	s.fill(s.mode.Background())
	s.gen++
	s.damage.MarkAll()
}

// ToggleMode switches to the opposite mode and applies Toggle to the whole
// buffer so extremal colors follow the new background.
func (s *Store) ToggleMode() {
	Toggle(s.pix)
	s.mode = s.mode.Opposite()
	s.gen++
	s.damage.MarkAll()
}

// Swap installs pix as the live buffer with the given mode and returns the
// buffer it replaced. pix must be exactly W*H*4 bytes.
func (s *Store) Swap(pix []byte, mode Mode) ([]byte, error) {
	if len(pix) != len(s.pix) {
		return nil, fmt.Errorf("canvas: swap buffer has %d bytes, want %d", len(pix), len(s.pix))
	}
	old := s.pix
	s.pix = pix
	if mode.IsValid() {
		s.mode = mode
	}
	s.gen++
	s.damage.MarkAll()
	return old, nil
}

// CopyTo copies the live buffer into dst and returns it. dst is reallocated
// when it is not exactly W*H*4 bytes.
func (s *Store) CopyTo(dst []byte) []byte {
	if len(dst) != len(s.pix) {
		dst = make([]byte, len(s.pix))
	}
	copy(dst, s.pix)
	return dst
}

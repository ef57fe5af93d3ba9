// Package image holds decoded poster bitmaps and the sampling routines the
// frame renderer uses to draw them at arbitrary scale.
//
// Buffers store straight (non-premultiplied) 8-bit RGBA, matching what
// decoders produce and what the poster manifest persists. Samplers return
// premultiplied values so results can be blended with a single multiply.
package image

import (
	"errors"
	"image"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrUnsupportedFormat is returned for data no registered decoder accepts.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrTooLarge is returned for images whose declared size exceeds the
	// decode limits.
	ErrTooLarge = errors.New("image: image too large")
)

// Buf is a tightly packed straight-alpha RGBA image.
//
// Thread safety: concurrent reads are safe; writes need external
// synchronization.
type Buf struct {
	pix    []byte
	width  int
	height int
}

// New allocates a transparent width x height buffer.
func New(width, height int) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Buf{pix: make([]byte, width*height*4), width: width, height: height}, nil
}

// FromRaw wraps existing straight-alpha RGBA data without copying.
func FromRaw(pix []byte, width, height int) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(pix) < width*height*4 {
		return nil, ErrDataTooSmall
	}
	return &Buf{pix: pix[:width*height*4], width: width, height: height}, nil
}

// Width returns the image width in pixels.
func (b *Buf) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *Buf) Height() int { return b.height }

// Bounds returns width and height.
func (b *Buf) Bounds() (int, int) { return b.width, b.height }

// Pix returns the underlying pixel data.
func (b *Buf) Pix() []byte { return b.pix }

// RGBA returns the straight-alpha color at (x, y). Out-of-range
// coordinates return transparent black.
func (b *Buf) RGBA(x, y int) (r, g, bl, a uint8) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, 0, 0, 0
	}
	i := (y*b.width + x) * 4
	return b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]
}

// SetRGBA sets the straight-alpha color at (x, y). Out-of-range
// coordinates are ignored.
func (b *Buf) SetRGBA(x, y int, r, g, bl, a uint8) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = r, g, bl, a
}

// NRGBA returns a standard library view sharing b's memory.
func (b *Buf) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.pix,
		Stride: b.width * 4,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// ByteSize returns the size of the pixel data in bytes.
func (b *Buf) ByteSize() int { return len(b.pix) }

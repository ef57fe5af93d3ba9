// Package overlay manages poster overlays: images pinned to the canvas that
// are drawn over it at render time but never written into it.
package overlay

import (
	"bytes"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/Atorque/rickboard/internal/image"
)

// Scale limits for a poster.
const (
	MinScale = 0.1
	MaxScale = 10.0
)

// Errors reported by the compositor and the manifest.
var (
	// ErrOverlayLoad marks a poster record or image that could not be read.
	ErrOverlayLoad = errors.New("overlay: load failed")

	// ErrUnknownPoster is returned for operations on an ID not in the list.
	ErrUnknownPoster = errors.New("overlay: unknown poster")
)

// ClampScale limits s to [MinScale, MaxScale]. Non-finite values become 1.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return min(max(s, MinScale), MaxScale)
}

// Poster is an image pinned at a logical canvas position.
//
// X is kept in [0, W) and Y in [0, H) by the compositor. Width and Height
// are the original image size; the displayed size is multiplied by Scale.
type Poster struct {
	ID    string
	Name  string
	X, Y  int
	Scale float64

	img  *image.Buf
	mips *image.MipmapChain

	// payload is the encoded image written to the manifest. nil means
	// the image is PNG-encoded on the next save.
	payload []byte
}

// NewPoster wraps img as an unplaced poster with a fresh ID and scale 1.
func NewPoster(name string, img *image.Buf) *Poster {
	return &Poster{
		ID:    uuid.NewString(),
		Name:  name,
		Scale: 1,
		img:   img,
		mips:  image.GenerateMipmaps(img),
	}
}

// Image returns the poster bitmap at original size.
func (p *Poster) Image() *image.Buf { return p.img }

// Width returns the original image width.
func (p *Poster) Width() int { return p.img.Width() }

// Height returns the original image height.
func (p *Poster) Height() int { return p.img.Height() }

// ScaledSize returns the displayed size in logical pixels.
func (p *Poster) ScaledSize() (w, h float64) {
	return float64(p.img.Width()) * p.Scale, float64(p.img.Height()) * p.Scale
}

// Payload returns the encoded image stored in the manifest, encoding the
// bitmap as PNG on first use.
func (p *Poster) Payload() ([]byte, error) {
	if p.payload != nil {
		return p.payload, nil
	}
	var buf bytes.Buffer
	if err := p.img.EncodePNG(&buf); err != nil {
		return nil, err
	}
	p.payload = buf.Bytes()
	return p.payload, nil
}

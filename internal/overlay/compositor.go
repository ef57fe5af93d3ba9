package overlay

import (
	"math"
	"slices"

	"github.com/Atorque/rickboard/internal/blend"
	"github.com/Atorque/rickboard/internal/image"
	"github.com/Atorque/rickboard/internal/projection"
)

// Compositor owns the ordered poster list. Later posters draw over
// earlier ones.
//
// Mutations belong to the edit path. CompositeRows only reads, so any
// number of render workers may call it concurrently between mutations.
type Compositor struct {
	proj    projection.Projector
	posters []*Poster
	gen     uint64
}

// NewCompositor returns an empty compositor for a canvasW x canvasH canvas.
func NewCompositor(canvasW, canvasH int) *Compositor {
	return &Compositor{proj: projection.New(canvasW, canvasH)}
}

// Len returns the number of posters.
func (c *Compositor) Len() int { return len(c.posters) }

// Generation increases with every change to the poster list.
func (c *Compositor) Generation() uint64 { return c.gen }

// Posters returns a copy of the poster list in draw order.
func (c *Compositor) Posters() []Poster {
	out := make([]Poster, len(c.posters))
	for i, p := range c.posters {
		out[i] = *p
	}
	return out
}

// Get returns the poster with the given ID.
func (c *Compositor) Get(id string) (Poster, bool) {
	if i := c.index(id); i >= 0 {
		return *c.posters[i], true
	}
	return Poster{}, false
}

func (c *Compositor) index(id string) int {
	return slices.IndexFunc(c.posters, func(p *Poster) bool { return p.ID == id })
}

// normalize wraps x into [0, W) and clamps y into [0, H).
func (c *Compositor) normalize(x, y int) (int, int) {
	w, h := c.proj.CanvasSize()
	x %= w
	if x < 0 {
		x += w
	}
	return x, min(max(y, 0), h-1)
}

// Add places p at logical (x, y) on top of the list. p.Scale is clamped.
func (c *Compositor) Add(p *Poster, x, y int) {
	p.X, p.Y = c.normalize(x, y)
	p.Scale = ClampScale(p.Scale)
	c.posters = append(c.posters, p)
	c.gen++
}

// Place creates a poster from img at logical (x, y) and returns its ID.
func (c *Compositor) Place(name string, img *image.Buf, x, y int) string {
	p := NewPoster(name, img)
	c.Add(p, x, y)
	return p.ID
}

// Move sets the position of poster id.
func (c *Compositor) Move(id string, x, y int) error {
	i := c.index(id)
	if i < 0 {
		return ErrUnknownPoster
	}
	p := c.posters[i]
	p.X, p.Y = c.normalize(x, y)
	c.gen++
	return nil
}

// Scale multiplies the scale of poster id by factor, clamped to
// [MinScale, MaxScale].
func (c *Compositor) Scale(id string, factor float64) error {
	i := c.index(id)
	if i < 0 {
		return ErrUnknownPoster
	}
	p := c.posters[i]
	p.Scale = ClampScale(p.Scale * factor)
	c.gen++
	return nil
}

// Delete removes poster id.
func (c *Compositor) Delete(id string) error {
	i := c.index(id)
	if i < 0 {
		return ErrUnknownPoster
	}
	c.posters = slices.Delete(c.posters, i, i+1)
	c.gen++
	return nil
}

// Replace installs a whole list, as read from a manifest.
func (c *Compositor) Replace(posters []*Poster) {
	c.posters = c.posters[:0]
	for _, p := range posters {
		c.Add(p, p.X, p.Y)
	}
	c.gen++
}

// At returns the topmost poster covering the logical point (x, y). x may
// be any wrap image of the point.
func (c *Compositor) At(x, y float64) (Poster, bool) {
	w, _ := c.proj.CanvasSize()
	for i := len(c.posters) - 1; i >= 0; i-- {
		p := c.posters[i]
		sw, sh := p.ScaledSize()
		dx := math.Mod(x-float64(p.X), float64(w))
		if dx < 0 {
			dx += float64(w)
		}
		dy := y - float64(p.Y)
		if dx < sw && dy >= 0 && dy < sh {
			return *p, true
		}
	}
	return Poster{}, false
}

// CompositeRows blends every poster into screen rows [y0, y1) of dst, an
// opaque RGBA frame with the given stride already holding the projected
// canvas.
//
// A poster near the seam is drawn once per wrap image that reaches the
// screen. Copies are drawn in ascending wrap order, so where two copies of
// one poster overlap (only when its scaled width exceeds W) the copy
// further right ends up on top.
//
// Each screen pixel samples the poster at its center with bilinear
// filtering, from the mipmap level matching the on-screen scale.
func (c *Compositor) CompositeRows(dst []byte, stride int, vp projection.Viewport, y0, y1 int) {
	if len(c.posters) == 0 {
		return
	}
	vp = c.proj.Normalize(vp)
	cw, _ := c.proj.CanvasSize()
	w := float64(cw)
	viewW := float64(vp.Width) / vp.Zoom
	y0, y1 = max(y0, 0), min(y1, vp.Height)

	for _, p := range c.posters {
		sw, sh := p.ScaledSize()
		top := (float64(p.Y) - vp.PanY) * vp.Zoom
		jy0 := max(y0, int(math.Floor(top)))
		jy1 := min(y1, int(math.Ceil(top+sh*vp.Zoom)))
		if jy0 >= jy1 {
			continue
		}

		src, fx, fy := p.mips.LevelForScale(p.Scale * vp.Zoom)
		pw, ph := float64(p.Width()), float64(p.Height())

		kmin := int(math.Floor((vp.PanX-float64(p.X)-sw)/w)) + 1
		kmax := int(math.Ceil((vp.PanX+viewW-float64(p.X))/w)) - 1
		for k := kmin; k <= kmax; k++ {
			originX := float64(p.X) + float64(k)*w
			left := (originX - vp.PanX) * vp.Zoom
			ix0 := max(0, int(math.Floor(left)))
			ix1 := min(vp.Width, int(math.Ceil(left+sw*vp.Zoom)))

			for j := jy0; j < jy1; j++ {
				v := (vp.PanY + (float64(j)+0.5)/vp.Zoom - float64(p.Y)) / p.Scale
				if v < 0 || v >= ph {
					continue
				}
				row := dst[j*stride:]
				for i := ix0; i < ix1; i++ {
					u := (vp.PanX + (float64(i)+0.5)/vp.Zoom - originX) / p.Scale
					if u < 0 || u >= pw {
						continue
					}
					r, g, b, a := image.SampleBilinear(src, u*fx, v*fy)
					blend.OverPremul(row[i*4:], r, g, b, a)
				}
			}
		}
	}
}

package image

import "math"

// MipmapChain holds successively halved copies of an image.
//
// Level 0 is the original. Sampling a strongly minified poster from the
// level closest to its on-screen size keeps bilinear filtering from
// skipping texels and aliasing.
type MipmapChain struct {
	levels []*Buf
}

// GenerateMipmaps builds a chain down to a 1-pixel minor side. Each level
// is a 2x2 alpha-weighted box filter of the previous one. src becomes
// level 0 without copying. Returns nil for a nil source.
func GenerateMipmaps(src *Buf) *MipmapChain {
	if src == nil {
		return nil
	}
	n := 1 + int(math.Floor(math.Log2(float64(min(src.width, src.height)))))
	chain := &MipmapChain{levels: make([]*Buf, 1, n)}
	chain.levels[0] = src
	for i := 1; i < n; i++ {
		chain.levels = append(chain.levels, downsample(chain.levels[i-1]))
	}
	return chain
}

func downsample(src *Buf) *Buf {
	dw := max(1, src.width/2)
	dh := max(1, src.height/2)
	dst, _ := New(dw, dh)

	for dy := range dh {
		for dx := range dw {
			sx, sy := dx*2, dy*2
			var r, g, b, a uint32
			for _, o := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
				x := min(sx+o[0], src.width-1)
				y := min(sy+o[1], src.height-1)
				pr, pg, pb, pa := src.RGBA(x, y)
				r += uint32(pr) * uint32(pa)
				g += uint32(pg) * uint32(pa)
				b += uint32(pb) * uint32(pa)
				a += uint32(pa)
			}
			if a == 0 {
				continue
			}
			dst.SetRGBA(dx, dy,
				uint8((r+a/2)/a), uint8((g+a/2)/a), uint8((b+a/2)/a),
				uint8((a+2)/4))
		}
	}
	return dst
}

// NumLevels returns the number of levels, 0 for a nil chain.
func (m *MipmapChain) NumLevels() int {
	if m == nil {
		return 0
	}
	return len(m.levels)
}

// Level returns level n, or nil when out of range.
func (m *MipmapChain) Level(n int) *Buf {
	if m == nil || n < 0 || n >= len(m.levels) {
		return nil
	}
	return m.levels[n]
}

// LevelForScale picks the level for drawing at scale (displayed size over
// original size): floor(-log2(scale)), clamped to the chain. It also
// returns the level's size relative to level 0 so callers can map
// coordinates.
func (m *MipmapChain) LevelForScale(scale float64) (img *Buf, fx, fy float64) {
	if m == nil || len(m.levels) == 0 {
		return nil, 0, 0
	}
	level := 0
	if scale > 0 && scale < 1 {
		level = min(int(math.Floor(-math.Log2(scale))), len(m.levels)-1)
	}
	img = m.levels[level]
	base := m.levels[0]
	return img, float64(img.width) / float64(base.width), float64(img.height) / float64(base.height)
}

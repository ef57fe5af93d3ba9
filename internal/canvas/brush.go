package canvas

import (
	"image/color"
	"math"
)

// Brush size limits. The stamped disc radius is size/2.
const (
	MinBrushSize     = 1
	MaxBrushSize     = 100
	DefaultBrushSize = 2
)

// MaxRadius is the largest disc radius a stroke stamps.
const MaxRadius = MaxBrushSize / 2

// ClampRadius limits radius to [0, MaxRadius].
func ClampRadius(radius int) int {
	return min(max(radius, 0), MaxRadius)
}

// ClampBrushSize limits size to [MinBrushSize, MaxBrushSize].
func ClampBrushSize(size int) int {
	return min(max(size, MinBrushSize), MaxBrushSize)
}

// Point is a logical canvas position with sub-pixel precision.
type Point struct {
	X, Y float64
}

// StampDisc paints a filled disc of the given radius centered on (cx, cy).
// The disc wraps across the seam; rows outside the canvas are clipped.
// A radius of 0 paints a single pixel; radii above MaxRadius are clamped.
func (s *Store) StampDisc(cx, cy, radius int, c color.RGBA) {
	radius = ClampRadius(radius)
	if cy+radius < 0 || cy-radius >= s.height {
		return
	}
	cx = s.Wrap(cx)
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		y := cy + dy
		if y < 0 || y >= s.height {
			continue
		}
		dy2 := dy * dy
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy2 <= r2 {
				s.set(s.offset(cx+dx, y), c)
			}
		}
	}
	d := 2*radius + 1
	s.touch(cx-radius, cy-radius, d, d)
}

// StrokeSegment paints the segment from a to b by stamping discs at
// ceil(distance)+1 evenly spaced points, so consecutive stamps overlap and
// the stroke has no gaps.
//
// Horizontally the segment takes the shorter way around the cylinder, so
// b may be given either wrapped or unwrapped. Only the part of the segment
// whose discs can reach the canvas rows is stepped; non-finite points are
// ignored.
func (s *Store) StrokeSegment(a, b Point, radius int, c color.RGBA) {
	if !a.finite() || !b.finite() {
		return
	}
	radius = ClampRadius(radius)
	w := float64(s.width)
	ax := math.Mod(a.X, w)
	dx := math.Mod(b.X, w) - ax
	if math.Abs(dx) > w/2 {
		dx -= w * math.Round(dx/w)
	}
	dy := b.Y - a.Y
	if math.IsInf(dy, 0) {
		return
	}

	t0, t1, ok := s.rowSpan(a.Y, dy, radius)
	if !ok {
		return
	}
	length := math.Hypot(dx, dy) * (t1 - t0)
	steps := max(int(math.Ceil(length)), 1)
	for i := 0; i <= steps; i++ {
		t := t0 + (t1-t0)*float64(i)/float64(steps)
		s.StampDisc(
			int(math.Floor(ax+dx*t)),
			int(math.Floor(a.Y+dy*t)),
			radius, c)
	}
}

// rowSpan returns the parameter range [t0, t1] within [0, 1] where the
// line y0 + dy*t lies within radius of the canvas rows.
func (s *Store) rowSpan(y0, dy float64, radius int) (t0, t1 float64, ok bool) {
	lo := -float64(radius) - 1
	hi := float64(s.height+radius) + 1
	if dy == 0 {
		return 0, 1, y0 >= lo && y0 <= hi
	}
	t0, t1 = (lo-y0)/dy, (hi-y0)/dy
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	t0, t1 = max(t0, 0), min(t1, 1)
	return t0, t1, t0 <= t1
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// StrokePath paints a polyline. A single point stamps one disc.
func (s *Store) StrokePath(points []Point, radius int, c color.RGBA) {
	switch len(points) {
	case 0:
		return
	case 1:
		s.StrokeSegment(points[0], points[0], radius, c)
		return
	}
	for i := 1; i < len(points); i++ {
		s.StrokeSegment(points[i-1], points[i], radius, c)
	}
}

// Package projection maps between logical canvas coordinates and screen
// pixels for a cylindrical canvas.
//
// The canvas is a cylinder of circumference W: logical x and x+W name the
// same column, so horizontal scrolling never ends. The vertical axis is
// bounded to [0, H) and the viewport is kept inside it.
//
// A screen pixel (i, j) shows the logical pixel under its center, that is
// ToLogical(i+0.5, j+0.5).
package projection

import "math"

// Zoom limits.
const (
	MinZoom = 0.1
	MaxZoom = 1.5
)

// Viewport is the on-screen window into the canvas.
//
// PanX and PanY are the logical coordinates shown at the top-left corner of
// the screen. Zoom is screen pixels per logical pixel. Width and Height are
// the screen size in pixels.
type Viewport struct {
	PanX, PanY    float64
	Zoom          float64
	Width, Height int
}

// Projector converts coordinates for a canvas of fixed size.
type Projector struct {
	canvasW int
	canvasH int
}

// New returns a projector for a canvasW x canvasH canvas.
func New(canvasW, canvasH int) Projector {
	return Projector{canvasW: max(canvasW, 1), canvasH: max(canvasH, 1)}
}

// CanvasSize returns the canvas dimensions.
func (p Projector) CanvasSize() (int, int) { return p.canvasW, p.canvasH }

// ClampZoom limits z to [MinZoom, MaxZoom]. Non-finite values become 1.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 1
	}
	return min(max(z, MinZoom), MaxZoom)
}

// wrapF maps v into [0, n).
func wrapF(v, n float64) float64 {
	v = math.Mod(v, n)
	if v < 0 {
		v += n
	}
	if v >= n {
		v = 0
	}
	return v
}

func wrapI(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Normalize returns vp with zoom clamped, PanX wrapped into [0, W) and PanY
// clamped so no row outside [0, H) is shown (when the canvas is at least
// as tall as the view). Screen sizes below 1 are raised to 1.
func (p Projector) Normalize(vp Viewport) Viewport {
	vp.Zoom = ClampZoom(vp.Zoom)
	vp.Width = max(vp.Width, 1)
	vp.Height = max(vp.Height, 1)
	if math.IsNaN(vp.PanX) || math.IsInf(vp.PanX, 0) {
		vp.PanX = 0
	}
	vp.PanX = wrapF(vp.PanX, float64(p.canvasW))

	maxY := max(float64(p.canvasH)-float64(vp.Height)/vp.Zoom, 0)
	if math.IsNaN(vp.PanY) {
		vp.PanY = 0
	}
	vp.PanY = min(max(vp.PanY, 0), maxY)
	return vp
}

// Pan shifts the view by (dx, dy) screen pixels. Positive dx reveals
// content further right, positive dy content further down.
func (p Projector) Pan(vp Viewport, dx, dy float64) Viewport {
	vp = p.Normalize(vp)
	vp.PanX += dx / vp.Zoom
	vp.PanY += dy / vp.Zoom
	return p.Normalize(vp)
}

// ZoomAt multiplies the zoom by factor, keeping the logical point under the
// screen position (sx, sy) fixed.
func (p Projector) ZoomAt(vp Viewport, factor, sx, sy float64) Viewport {
	vp = p.Normalize(vp)
	if factor <= 0 || math.IsNaN(factor) {
		return vp
	}
	lx := vp.PanX + sx/vp.Zoom
	ly := vp.PanY + sy/vp.Zoom
	vp.Zoom = ClampZoom(vp.Zoom * factor)
	vp.PanX = lx - sx/vp.Zoom
	vp.PanY = ly - sy/vp.Zoom
	return p.Normalize(vp)
}

// Resize changes the screen size, keeping the top-left corner.
func (p Projector) Resize(vp Viewport, width, height int) Viewport {
	vp.Width, vp.Height = width, height
	return p.Normalize(vp)
}

// ToScreen projects the logical point (x, y) onto the screen.
//
// Of the infinitely many wrap images x + k*W, the one closest to the
// viewport center is used, so a point just across the seam from the view
// projects next to it rather than a full circumference away. ok is false
// when that image lies outside the screen.
func (p Projector) ToScreen(x, y float64, vp Viewport) (sx, sy float64, ok bool) {
	vp = p.Normalize(vp)
	w := float64(p.canvasW)

	d := wrapF(x-vp.PanX, w)
	center := float64(vp.Width) / vp.Zoom / 2
	d += w * math.Round((center-d)/w)

	sx = d * vp.Zoom
	sy = (y - vp.PanY) * vp.Zoom
	ok = sx >= 0 && sx < float64(vp.Width) && sy >= 0 && sy < float64(vp.Height)
	return sx, sy, ok
}

// ToLogicalF returns the continuous logical coordinate under the screen
// point. x is not wrapped, so consecutive points of a drag stay adjacent
// even when the view straddles the seam.
func (p Projector) ToLogicalF(sx, sy float64, vp Viewport) (x, y float64) {
	vp = p.Normalize(vp)
	return vp.PanX + sx/vp.Zoom, vp.PanY + sy/vp.Zoom
}

// ToLogical returns the logical pixel under the screen point, with x
// wrapped into [0, W). y is not clamped; callers decide how to treat rows
// outside the canvas.
func (p Projector) ToLogical(sx, sy float64, vp Viewport) (x, y int) {
	fx, fy := p.ToLogicalF(sx, sy, vp)
	return wrapI(int(math.Floor(fx)), p.canvasW), int(math.Floor(fy))
}

// SampleMap lists, for every screen column and row, the logical pixel its
// center shows. Rows outside the canvas are -1. A map is computed once per
// frame and shared read-only by all render workers.
type SampleMap struct {
	Cols []int32
	Rows []int32
}

// Samples builds the SampleMap for vp.
func (p Projector) Samples(vp Viewport) SampleMap {
	vp = p.Normalize(vp)
	m := SampleMap{
		Cols: make([]int32, vp.Width),
		Rows: make([]int32, vp.Height),
	}
	for i := range m.Cols {
		x, _ := p.ToLogical(float64(i)+0.5, 0, vp)
		m.Cols[i] = int32(x)
	}
	for j := range m.Rows {
		_, y := p.ToLogical(0, float64(j)+0.5, vp)
		if y < 0 || y >= p.canvasH {
			y = -1
		}
		m.Rows[j] = int32(y)
	}
	return m
}

package projection

import (
	"math"
	"testing"
)

const (
	testW = 1000
	testH = 100
)

func view(panX, panY, zoom float64) Viewport {
	return Viewport{PanX: panX, PanY: panY, Zoom: zoom, Width: 200, Height: 50}
}

// =============================================================================
// Normalize
// =============================================================================

func TestNormalize(t *testing.T) {
	p := New(testW, testH)

	tests := []struct {
		name string
		in   Viewport
		want Viewport
	}{
		{"identity", view(10, 20, 1), view(10, 20, 1)},
		{"wrap pan x", view(2500, 0, 1), view(500, 0, 1)},
		{"negative pan x", view(-1, 0, 1), view(999, 0, 1)},
		{"pan y below zero", view(0, -30, 1), view(0, 0, 1)},
		{"pan y past bottom", view(0, 80, 1), view(0, 50, 1)},
		{"zoom too small", view(0, 0, 0.01), Viewport{Zoom: MinZoom, Width: 200, Height: 50}},
		{"zoom too large", view(0, 0, 9), view(0, 0, MaxZoom)},
	}
	for _, tt := range tests {
		got := p.Normalize(tt.in)
		if math.Abs(got.PanX-tt.want.PanX) > 1e-9 || math.Abs(got.PanY-tt.want.PanY) > 1e-9 || got.Zoom != tt.want.Zoom {
			t.Errorf("%s: Normalize() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestNormalize_ViewTallerThanCanvas(t *testing.T) {
	p := New(testW, testH)
	vp := p.Normalize(Viewport{PanY: 40, Zoom: 1, Width: 10, Height: 300})
	if vp.PanY != 0 {
		t.Errorf("PanY = %v, want 0 when the view is taller than the canvas", vp.PanY)
	}
}

func TestClampZoom(t *testing.T) {
	if got := ClampZoom(math.NaN()); got != 1 {
		t.Errorf("ClampZoom(NaN) = %v, want 1", got)
	}
	if got := ClampZoom(math.Inf(1)); got != 1 {
		t.Errorf("ClampZoom(+Inf) = %v, want 1", got)
	}
	if got := ClampZoom(0.7); got != 0.7 {
		t.Errorf("ClampZoom(0.7) = %v, want 0.7", got)
	}
}

// =============================================================================
// ToScreen / ToLogical
// =============================================================================

func TestToScreen_Basic(t *testing.T) {
	p := New(testW, testH)
	sx, sy, ok := p.ToScreen(110, 25, view(100, 20, 1))
	if !ok || sx != 10 || sy != 5 {
		t.Errorf("ToScreen() = %v,%v,%v, want 10,5,true", sx, sy, ok)
	}

	// At zoom 0.5 the whole canvas height fits, so PanY clamps to 0.
	sx, sy, ok = p.ToScreen(110, 25, view(100, 20, 0.5))
	if !ok || sx != 5 || sy != 12.5 {
		t.Errorf("ToScreen(zoom 0.5) = %v,%v,%v, want 5,12.5,true", sx, sy, ok)
	}
}

func TestToScreen_AcrossSeam(t *testing.T) {
	p := New(testW, testH)
	vp := view(990, 0, 1) // shows 990..999 then 0..189

	tests := []struct {
		x      float64
		wantSX float64
	}{
		{995, 5},
		{0, 10},
		{5, 15},
		{1005, 15},
		{-995, 15},
	}
	for _, tt := range tests {
		sx, _, ok := p.ToScreen(tt.x, 0, vp)
		if !ok || sx != tt.wantSX {
			t.Errorf("ToScreen(%v) = %v,%v, want %v,true", tt.x, sx, ok, tt.wantSX)
		}
	}
}

func TestToScreen_NearestImage(t *testing.T) {
	p := New(testW, testH)
	// Column 990 is 10 pixels left of the screen at pan 0: the nearest
	// image is off-screen on the left, not 990 pixels to the right.
	sx, _, ok := p.ToScreen(990, 0, view(0, 0, 1))
	if ok {
		t.Errorf("ToScreen(990) ok = true, want offscreen")
	}
	if sx != -10 {
		t.Errorf("ToScreen(990) sx = %v, want -10", sx)
	}
}

func TestToScreen_OffscreenRows(t *testing.T) {
	p := New(testW, testH)
	if _, _, ok := p.ToScreen(10, 99, view(0, 0, 1)); ok {
		t.Error("row 99 should be below a 50-row view at pan 0")
	}
	if _, _, ok := p.ToScreen(10, -1, view(0, 0, 1)); ok {
		t.Error("row -1 should be offscreen")
	}
}

func TestToScreen_WrapContinuity(t *testing.T) {
	p := New(testW, testH)
	for _, pan := range []float64{0, 1, 499.5, 990, 999, 12345} {
		for _, zoom := range []float64{0.5, 1, 1.5} {
			vp := view(pan, 10, zoom)
			for _, x := range []float64{0, 3, 500, 994, 999} {
				sx0, sy0, ok0 := p.ToScreen(x, 30, vp)
				sx1, sy1, ok1 := p.ToScreen(x+testW, 30, vp)
				sx2, sy2, ok2 := p.ToScreen(x-testW, 30, vp)
				if sx0 != sx1 || sy0 != sy1 || ok0 != ok1 || sx0 != sx2 || sy0 != sy2 || ok0 != ok2 {
					t.Errorf("pan %v zoom %v x %v: images differ: (%v,%v,%v) (%v,%v,%v) (%v,%v,%v)",
						pan, zoom, x, sx0, sy0, ok0, sx1, sy1, ok1, sx2, sy2, ok2)
				}
			}
		}
	}
}

func TestToLogical_InvertsToScreen(t *testing.T) {
	p := New(testW, testH)
	for _, pan := range []float64{0, 950, 999} {
		for _, zoom := range []float64{0.5, 1, 1.25} {
			vp := view(pan, 20, zoom)
			for _, x := range []int{0, 1, 998, 999, 40, 120} {
				sx, sy, ok := p.ToScreen(float64(x), 30, vp)
				if !ok {
					continue
				}
				// Probe the middle of the logical pixel's footprint.
				lx, ly := p.ToLogical(sx+0.5*zoom, sy+0.5*zoom, vp)
				if lx != x || ly != 30 {
					t.Errorf("pan %v zoom %v: ToLogical(ToScreen(%d,30)) = %d,%d", pan, zoom, x, lx, ly)
				}
			}
		}
	}
}

func TestToLogical_Wraps(t *testing.T) {
	p := New(testW, testH)
	x, y := p.ToLogical(15.2, 3.7, view(990, 0, 1))
	if x != 5 || y != 3 {
		t.Errorf("ToLogical() = %d,%d, want 5,3", x, y)
	}

	fx, _ := p.ToLogicalF(15.2, 0, view(990, 0, 1))
	if math.Abs(fx-1005.2) > 1e-9 {
		t.Errorf("ToLogicalF() x = %v, want unwrapped 1005.2", fx)
	}
}

// =============================================================================
// Pan / Zoom
// =============================================================================

func TestPan(t *testing.T) {
	p := New(testW, testH)
	vp := p.Pan(view(995, 0, 0.5), 20, 10)

	if math.Abs(vp.PanX-35) > 1e-9 {
		t.Errorf("PanX = %v, want 35 (995 + 40 wrapped)", vp.PanX)
	}
	// 10 screen pixels at zoom 0.5 is 20 rows, but the view already shows
	// 100 rows, so PanY stays clamped at 0.
	if vp.PanY != 0 {
		t.Errorf("PanY = %v, want 0", vp.PanY)
	}
}

func TestZoomAt_KeepsAnchor(t *testing.T) {
	p := New(testW, testH)
	vp := view(300, 10, 1)
	sx, sy := 120.0, 20.0

	bx, by := p.ToLogicalF(sx, sy, vp)
	vp = p.ZoomAt(vp, 1.1, sx, sy)
	ax, ay := p.ToLogicalF(sx, sy, vp)

	if math.Abs(ax-bx) > 1e-9 || math.Abs(ay-by) > 1e-9 {
		t.Errorf("anchor moved from (%v,%v) to (%v,%v)", bx, by, ax, ay)
	}
	if math.Abs(vp.Zoom-1.1) > 1e-12 {
		t.Errorf("Zoom = %v, want 1.1", vp.Zoom)
	}

	vp = p.ZoomAt(vp, 100, 0, 0)
	if vp.Zoom != MaxZoom {
		t.Errorf("Zoom = %v, want clamped to %v", vp.Zoom, MaxZoom)
	}
	if same := p.ZoomAt(vp, -1, 0, 0); same.Zoom != vp.Zoom {
		t.Error("negative factor should be ignored")
	}
}

func TestResize(t *testing.T) {
	p := New(testW, testH)
	vp := p.Resize(view(0, 40, 1), 300, 80)
	if vp.Width != 300 || vp.Height != 80 {
		t.Errorf("size = %dx%d, want 300x80", vp.Width, vp.Height)
	}
	if vp.PanY != 20 {
		t.Errorf("PanY = %v, want 20 after growing the view", vp.PanY)
	}
}

// =============================================================================
// Samples
// =============================================================================

func TestSamples(t *testing.T) {
	p := New(10, 10)

	m := p.Samples(Viewport{PanX: 8, Zoom: 1, Width: 4, Height: 12})
	wantCols := []int32{8, 9, 0, 1}
	for i, w := range wantCols {
		if m.Cols[i] != w {
			t.Errorf("Cols[%d] = %d, want %d", i, m.Cols[i], w)
		}
	}
	for j, r := range m.Rows {
		want := int32(j)
		if j >= 10 {
			want = -1
		}
		if r != want {
			t.Errorf("Rows[%d] = %d, want %d", j, r, want)
		}
	}

	m = p.Samples(Viewport{PanX: 0, Zoom: 0.5, Width: 4, Height: 1})
	for i, w := range []int32{1, 3, 5, 7} {
		if m.Cols[i] != w {
			t.Errorf("zoom 0.5: Cols[%d] = %d, want %d", i, m.Cols[i], w)
		}
	}
}

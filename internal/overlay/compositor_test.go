package overlay

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/Atorque/rickboard/internal/image"
	"github.com/Atorque/rickboard/internal/projection"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func solid(t *testing.T, w, h int, c color.RGBA) *image.Buf {
	t.Helper()
	b, err := image.New(w, h)
	if err != nil {
		t.Fatalf("image.New(%d, %d) error = %v", w, h, err)
	}
	for y := range h {
		for x := range w {
			b.SetRGBA(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return b
}

// frame returns an opaque black frame for vp.
func frame(vp projection.Viewport) []byte {
	f := make([]byte, vp.Width*vp.Height*4)
	for i := 3; i < len(f); i += 4 {
		f[i] = 255
	}
	return f
}

func pixel(f []byte, vp projection.Viewport, x, y int) color.RGBA {
	i := (y*vp.Width + x) * 4
	return color.RGBA{f[i], f[i+1], f[i+2], f[i+3]}
}

func render(c *Compositor, vp projection.Viewport) []byte {
	f := frame(vp)
	c.CompositeRows(f, vp.Width*4, vp, 0, vp.Height)
	return f
}

// =============================================================================
// List operations
// =============================================================================

func TestCompositor_PlaceNormalizes(t *testing.T) {
	c := NewCompositor(100, 20)
	id := c.Place("a", solid(t, 2, 2, red), -5, 50)

	p, ok := c.Get(id)
	if !ok {
		t.Fatalf("Get(%q) not found", id)
	}
	if p.X != 95 || p.Y != 19 {
		t.Errorf("position = (%d,%d), want (95,19)", p.X, p.Y)
	}
	if p.Scale != 1 {
		t.Errorf("Scale = %v, want 1", p.Scale)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCompositor_ScaleClamps(t *testing.T) {
	c := NewCompositor(100, 20)
	id := c.Place("a", solid(t, 2, 2, red), 0, 0)

	if err := c.Scale(id, 100); err != nil {
		t.Fatalf("Scale() error = %v", err)
	}
	if p, _ := c.Get(id); p.Scale != MaxScale {
		t.Errorf("Scale = %v, want %v", p.Scale, MaxScale)
	}
	if err := c.Scale(id, 0.0001); err != nil {
		t.Fatalf("Scale() error = %v", err)
	}
	if p, _ := c.Get(id); p.Scale != MinScale {
		t.Errorf("Scale = %v, want %v", p.Scale, MinScale)
	}
}

func TestCompositor_UnknownPoster(t *testing.T) {
	c := NewCompositor(100, 20)
	if err := c.Move("nope", 1, 1); !errors.Is(err, ErrUnknownPoster) {
		t.Errorf("Move() error = %v, want ErrUnknownPoster", err)
	}
	if err := c.Scale("nope", 2); !errors.Is(err, ErrUnknownPoster) {
		t.Errorf("Scale() error = %v, want ErrUnknownPoster", err)
	}
	if err := c.Delete("nope"); !errors.Is(err, ErrUnknownPoster) {
		t.Errorf("Delete() error = %v, want ErrUnknownPoster", err)
	}
}

func TestCompositor_GenerationAdvances(t *testing.T) {
	c := NewCompositor(100, 20)
	g0 := c.Generation()
	id := c.Place("a", solid(t, 2, 2, red), 0, 0)
	g1 := c.Generation()
	_ = c.Move(id, 5, 5)
	g2 := c.Generation()
	_ = c.Delete(id)
	g3 := c.Generation()
	if !(g0 < g1 && g1 < g2 && g2 < g3) {
		t.Errorf("generations = %d %d %d %d, want strictly increasing", g0, g1, g2, g3)
	}
}

func TestCompositor_At(t *testing.T) {
	c := NewCompositor(100, 20)
	bottom := c.Place("bottom", solid(t, 10, 10, red), 0, 0)
	top := c.Place("top", solid(t, 10, 10, blue), 5, 5)
	seam := c.Place("seam", solid(t, 10, 2, red), 95, 15)

	tests := []struct {
		x, y   float64
		wantID string
		wantOK bool
	}{
		{1, 1, bottom, true},
		{7, 7, top, true},
		{14.9, 14.9, top, true},
		{15, 1, "", false},
		{96, 15, seam, true},
		{2, 16, seam, true},
		{102, 16, seam, true},
		{-3, 15.5, seam, true},
		{6, 16, "", false},
	}
	for _, tt := range tests {
		p, ok := c.At(tt.x, tt.y)
		if ok != tt.wantOK || p.ID != tt.wantID {
			t.Errorf("At(%v,%v) = %q,%v, want %q,%v", tt.x, tt.y, p.ID, ok, tt.wantID, tt.wantOK)
		}
	}
}

// =============================================================================
// Compositing
// =============================================================================

func TestCompositeRows_AddThenDeleteIsPure(t *testing.T) {
	c := NewCompositor(100, 20)
	vp := projection.Viewport{Zoom: 1, Width: 50, Height: 10}

	before := render(c, vp)
	id := c.Place("a", solid(t, 10, 10, red), 3, 2)
	if bytes.Equal(before, render(c, vp)) {
		t.Fatal("poster did not change the frame")
	}
	if err := c.Delete(id); err != nil {
		t.Fatal(err)
	}
	if after := render(c, vp); !bytes.Equal(before, after) {
		t.Error("frame after add+delete differs from the empty frame")
	}
}

func TestCompositeRows_SeamCopies(t *testing.T) {
	c := NewCompositor(100, 20)
	c.Place("seam", solid(t, 10, 4, red), 95, 0)
	black := color.RGBA{0, 0, 0, 255}

	// Pan 0: the left copy at x=-5 shows columns 0..4.
	vp := projection.Viewport{PanX: 0, Zoom: 1, Width: 50, Height: 10}
	f := render(c, vp)
	for x := range 5 {
		if got := pixel(f, vp, x, 0); got != red {
			t.Errorf("pan 0: pixel(%d,0) = %v, want red", x, got)
		}
	}
	for _, x := range []int{5, 45, 49} {
		if got := pixel(f, vp, x, 0); got != black {
			t.Errorf("pan 0: pixel(%d,0) = %v, want black", x, got)
		}
	}
	if got := pixel(f, vp, 0, 4); got != black {
		t.Errorf("pan 0: pixel(0,4) = %v, want black below the poster", got)
	}

	// Pan 90: the poster runs across the seam from screen column 5 to 14.
	vp.PanX = 90
	f = render(c, vp)
	for x := 5; x < 15; x++ {
		if got := pixel(f, vp, x, 3); got != red {
			t.Errorf("pan 90: pixel(%d,3) = %v, want red", x, got)
		}
	}
	for _, x := range []int{4, 15} {
		if got := pixel(f, vp, x, 3); got != black {
			t.Errorf("pan 90: pixel(%d,3) = %v, want black", x, got)
		}
	}
}

func TestCompositeRows_OverlappingCopiesRightWins(t *testing.T) {
	// A poster 150 wide on a 100 wide canvas overlaps its own wrap image.
	// Its left 100 columns are red and the rest blue.
	img := solid(t, 150, 2, red)
	for y := range 2 {
		for x := 100; x < 150; x++ {
			img.SetRGBA(x, y, 0, 0, 255, 255)
		}
	}
	c := NewCompositor(100, 20)
	c.Place("wide", img, 0, 0)

	vp := projection.Viewport{PanX: 0, Zoom: 1, Width: 100, Height: 2}
	f := render(c, vp)

	// Column 20 is covered by the copy at -100 (blue part) and the copy at
	// 0 (red part). The copy at 0 is further right and is drawn last.
	for _, x := range []int{0, 20, 49, 60, 99} {
		if got := pixel(f, vp, x, 0); got != red {
			t.Errorf("pixel(%d,0) = %v, want red from the right copy", x, got)
		}
	}
}

func TestCompositeRows_AlphaBlend(t *testing.T) {
	c := NewCompositor(100, 20)
	c.Place("half", solid(t, 4, 4, color.RGBA{255, 255, 255, 128}), 0, 0)

	vp := projection.Viewport{Zoom: 1, Width: 10, Height: 10}
	f := render(c, vp)
	want := color.RGBA{128, 128, 128, 255}
	if got := pixel(f, vp, 1, 1); got != want {
		t.Errorf("pixel(1,1) = %v, want %v", got, want)
	}
}

func TestCompositeRows_Scale(t *testing.T) {
	c := NewCompositor(100, 20)
	id := c.Place("s", solid(t, 4, 2, red), 10, 1)
	if err := c.Scale(id, 2); err != nil {
		t.Fatal(err)
	}

	vp := projection.Viewport{Zoom: 1, Width: 40, Height: 10}
	f := render(c, vp)
	black := color.RGBA{0, 0, 0, 255}
	if got := pixel(f, vp, 17, 4); got != red {
		t.Errorf("pixel(17,4) = %v, want red inside the scaled poster", got)
	}
	if got := pixel(f, vp, 18, 4); got != black {
		t.Errorf("pixel(18,4) = %v, want black past the scaled width", got)
	}
	if got := pixel(f, vp, 10, 5); got != black {
		t.Errorf("pixel(10,5) = %v, want black past the scaled height", got)
	}
}

func TestCompositeRows_Minified(t *testing.T) {
	c := NewCompositor(1000, 200)
	id := c.Place("big", solid(t, 64, 64, red), 0, 0)
	if err := c.Scale(id, 0.1); err != nil {
		t.Fatal(err)
	}

	vp := projection.Viewport{Zoom: 1, Width: 20, Height: 20}
	f := render(c, vp)
	if got := pixel(f, vp, 3, 3); got != red {
		t.Errorf("pixel(3,3) = %v, want red", got)
	}
}

func TestCompositeRows_BandsMatchWholeFrame(t *testing.T) {
	c := NewCompositor(100, 40)
	c.Place("a", solid(t, 30, 30, color.RGBA{200, 40, 10, 180}), 90, 3)
	c.Place("b", solid(t, 7, 9, blue), 5, 10)

	vp := projection.Viewport{PanX: 80, Zoom: 1.3, Width: 60, Height: 30}
	whole := render(c, vp)

	banded := frame(vp)
	for y := 0; y < vp.Height; y += 7 {
		c.CompositeRows(banded, vp.Width*4, vp, y, y+7)
	}
	if !bytes.Equal(whole, banded) {
		t.Error("banded compositing differs from a single pass")
	}
}

package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func mustNew(t *testing.T, w, h int, mode Mode) *Store {
	t.Helper()
	s, err := New(w, h, mode)
	if err != nil {
		t.Fatalf("New(%d, %d, %v) error = %v", w, h, mode, err)
	}
	return s
}

// =============================================================================
// Construction
// =============================================================================

func TestNew_FillsBackground(t *testing.T) {
	for _, mode := range []Mode{Blackboard, Whiteboard} {
		s := mustNew(t, 10, 4, mode)
		if got, want := len(s.Pix()), 10*4*4; got != want {
			t.Fatalf("len(Pix()) = %d, want %d", got, want)
		}
		for y := range 4 {
			for x := range 10 {
				if got := s.ReadPixel(x, y); got != mode.Background() {
					t.Fatalf("%v: ReadPixel(%d, %d) = %v, want %v", mode, x, y, got, mode.Background())
				}
			}
		}
	}
}

func TestNew_InvalidDimensions(t *testing.T) {
	tests := []struct{ w, h int }{
		{0, 10},
		{10, 0},
		{-1, 5},
		{MaxDimension + 1, 1},
	}
	for _, tt := range tests {
		if _, err := New(tt.w, tt.h, Blackboard); !errors.Is(err, ErrDimensions) {
			t.Errorf("New(%d, %d) error = %v, want ErrDimensions", tt.w, tt.h, err)
		}
	}
}

// =============================================================================
// Pixel access
// =============================================================================

func TestStore_WrapX(t *testing.T) {
	s := mustNew(t, 16, 4, Blackboard)
	s.WritePixel(-1, 2, Red)

	if got := s.ReadPixel(15, 2); got != Red {
		t.Errorf("ReadPixel(15, 2) = %v, want %v", got, Red)
	}
	if got := s.ReadPixel(31, 2); got != Red {
		t.Errorf("ReadPixel(31, 2) = %v, want %v", got, Red)
	}
	if got := s.ReadPixel(-17, 2); got != Red {
		t.Errorf("ReadPixel(-17, 2) = %v, want %v", got, Red)
	}
}

func TestStore_RowsOutsideIgnored(t *testing.T) {
	s := mustNew(t, 8, 4, Blackboard)
	before := bytes.Clone(s.Pix())
	gen := s.Generation()

	s.WritePixel(3, -1, Red)
	s.WritePixel(3, 4, Red)

	if !bytes.Equal(before, s.Pix()) {
		t.Error("writes outside [0,H) changed the buffer")
	}
	if s.Generation() != gen {
		t.Errorf("Generation() = %d, want %d (no-op writes)", s.Generation(), gen)
	}
	if got := s.ReadPixel(0, 99); got != (color.RGBA{}) {
		t.Errorf("ReadPixel(0, 99) = %v, want zero", got)
	}
}

func TestStore_WriteBumpsGeneration(t *testing.T) {
	s := mustNew(t, 8, 4, Blackboard)
	g0 := s.Generation()
	s.WritePixel(1, 1, Blue)
	if s.Generation() <= g0 {
		t.Errorf("Generation() = %d after write, want > %d", s.Generation(), g0)
	}
}

func TestStore_RegionAcrossSeam(t *testing.T) {
	s := mustNew(t, 10, 3, Blackboard)

	// Four pixels wide, starting two pixels before the seam.
	r := image.Rect(8, 1, 12, 2)
	buf := make([]byte, 4*4)
	for i := range 4 {
		copy(buf[i*4:], []byte{byte(10 * (i + 1)), 0, 0, 255})
	}
	s.WriteRegion(r, buf)

	want := map[int]byte{8: 10, 9: 20, 0: 30, 1: 40}
	for x, red := range want {
		if got := s.ReadPixel(x, 1); got.R != red {
			t.Errorf("ReadPixel(%d, 1).R = %d, want %d", x, got.R, red)
		}
	}

	got := s.ReadRegion(r)
	if !bytes.Equal(got, buf) {
		t.Errorf("ReadRegion() = %v, want %v", got, buf)
	}
}

func TestStore_ReadRegionClipsRows(t *testing.T) {
	s := mustNew(t, 4, 2, Whiteboard)
	got := s.ReadRegion(image.Rect(0, -1, 2, 1))
	if len(got) != 2*2*4 {
		t.Fatalf("len = %d, want 16", len(got))
	}
	for i := range 8 {
		if got[i] != 0 {
			t.Fatalf("row above canvas byte %d = %d, want 0", i, got[i])
		}
	}
	if got[8] != 255 {
		t.Errorf("row 0 red = %d, want 255", got[8])
	}
}

// =============================================================================
// Whole-buffer operations
// =============================================================================

func TestStore_Clear(t *testing.T) {
	s := mustNew(t, 8, 8, Whiteboard)
	s.StampDisc(4, 4, 2, Red)
	s.Clear()
	for i := 0; i < len(s.Pix()); i += 4 {
		if s.Pix()[i] != 255 || s.Pix()[i+1] != 255 {
			t.Fatalf("pixel %d not background after Clear", i/4)
		}
	}
}

func TestStore_SwapReturnsPrevious(t *testing.T) {
	s := mustNew(t, 4, 4, Blackboard)
	live := s.Pix()
	repl := make([]byte, len(live))

	old, err := s.Swap(repl, Whiteboard)
	if err != nil {
		t.Fatalf("Swap() error = %v", err)
	}
	if &old[0] != &live[0] {
		t.Error("Swap() should return the previous buffer")
	}
	if s.Mode() != Whiteboard {
		t.Errorf("Mode() = %v, want Whiteboard", s.Mode())
	}

	if _, err := s.Swap(make([]byte, 3), Blackboard); err == nil {
		t.Error("Swap() with wrong size should fail")
	}
}

func TestStore_CopyTo(t *testing.T) {
	s := mustNew(t, 4, 4, Blackboard)
	s.WritePixel(1, 1, Green)

	dst := s.CopyTo(nil)
	if !bytes.Equal(dst, s.Pix()) {
		t.Fatal("CopyTo(nil) differs from Pix()")
	}
	reused := s.CopyTo(dst)
	if &reused[0] != &dst[0] {
		t.Error("CopyTo should reuse a correctly sized buffer")
	}
	s.WritePixel(1, 1, Red)
	if dst[(1*4+1)*4] == 255 {
		t.Error("copy should not alias the live buffer")
	}
}

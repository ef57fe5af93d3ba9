package image

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	b, err := New(3, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if w, h := b.Bounds(); w != 3 || h != 2 {
		t.Errorf("Bounds() = %d,%d, want 3,2", w, h)
	}
	if b.ByteSize() != 24 {
		t.Errorf("ByteSize() = %d, want 24", b.ByteSize())
	}

	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-2, 2}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("New(%d,%d) error = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func TestFromRaw(t *testing.T) {
	pix := make([]byte, 2*2*4+8)
	b, err := FromRaw(pix, 2, 2)
	if err != nil {
		t.Fatalf("FromRaw() error = %v", err)
	}
	if len(b.Pix()) != 16 {
		t.Errorf("len(Pix()) = %d, want 16", len(b.Pix()))
	}
	b.SetRGBA(1, 1, 9, 8, 7, 6)
	if pix[12] != 9 {
		t.Error("FromRaw should share memory")
	}

	if _, err := FromRaw(make([]byte, 15), 2, 2); !errors.Is(err, ErrDataTooSmall) {
		t.Errorf("FromRaw(short) error = %v, want ErrDataTooSmall", err)
	}
}

func TestBuf_OutOfRange(t *testing.T) {
	b, _ := New(2, 2)
	b.SetRGBA(5, 0, 1, 1, 1, 1)
	b.SetRGBA(-1, 0, 1, 1, 1, 1)
	for _, v := range b.Pix() {
		if v != 0 {
			t.Fatal("out-of-range SetRGBA wrote into the buffer")
		}
	}
	if r, g, bl, a := b.RGBA(2, 2); r|g|bl|a != 0 {
		t.Error("out-of-range RGBA should be transparent")
	}
}

func TestBuf_NRGBAView(t *testing.T) {
	b, _ := New(4, 3)
	b.SetRGBA(2, 1, 10, 20, 30, 40)
	n := b.NRGBA()
	c := n.NRGBAAt(2, 1)
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 40 {
		t.Errorf("NRGBAAt(2,1) = %v, want {10 20 30 40}", c)
	}
}

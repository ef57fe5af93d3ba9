package canvas

import (
	"math/bits"
	"sync/atomic"
)

// DamageTile is the edge length, in canvas pixels, of one damage cell.
const DamageTile = 64

// Damage records which canvas tiles were written since it was last cleared.
//
// The frame renderer uses it to recompute only the viewport bands that show
// changed canvas content. One bit per tile, packed into atomic words, so
// marking and querying need no locks.
//
// Rectangles passed to Damage use logical coordinates: x may lie outside
// [0, width) and wraps; a rectangle crossing the seam covers tiles on both
// ends of the canvas.
type Damage struct {
	words  []atomic.Uint64
	tilesX int
	tilesY int
	width  int
	height int
}

// NewDamage creates a clean tracker for a width x height canvas.
// Returns nil for non-positive dimensions.
func NewDamage(width, height int) *Damage {
	if width <= 0 || height <= 0 {
		return nil
	}
	tilesX := (width + DamageTile - 1) / DamageTile
	tilesY := (height + DamageTile - 1) / DamageTile
	return &Damage{
		words:  make([]atomic.Uint64, (tilesX*tilesY+63)/64),
		tilesX: tilesX,
		tilesY: tilesY,
		width:  width,
		height: height,
	}
}

func (d *Damage) mark(tx, ty int) {
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << (idx & 63))
}

func (d *Damage) isSet(tx, ty int) bool {
	idx := ty*d.tilesX + tx
	return d.words[idx/64].Load()&(1<<(idx&63)) != 0
}

// spans splits the logical column range [x, x+w) into at most two
// in-bounds tile column ranges.
func (d *Damage) spans(x, w int) (a, b [2]int, n int) {
	if w >= d.width {
		return [2]int{0, d.tilesX - 1}, b, 1
	}
	x0 := wrap(x, d.width)
	x1 := x0 + w - 1
	if x1 < d.width {
		return [2]int{x0 / DamageTile, x1 / DamageTile}, b, 1
	}
	return [2]int{x0 / DamageTile, d.tilesX - 1}, [2]int{0, (x1 - d.width) / DamageTile}, 2
}

func (d *Damage) rows(y, h int) (ty0, ty1 int, ok bool) {
	y0 := max(y, 0)
	y1 := min(y+h, d.height) - 1
	if y0 > y1 {
		return 0, 0, false
	}
	return y0 / DamageTile, y1 / DamageTile, true
}

// MarkRect marks every tile touched by the logical rectangle.
// Rows outside the canvas are ignored.
func (d *Damage) MarkRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	ty0, ty1, ok := d.rows(y, h)
	if !ok {
		return
	}
	a, b, n := d.spans(x, w)
	for ty := ty0; ty <= ty1; ty++ {
		for tx := a[0]; tx <= a[1]; tx++ {
			d.mark(tx, ty)
		}
		if n == 2 {
			for tx := b[0]; tx <= b[1]; tx++ {
				d.mark(tx, ty)
			}
		}
	}
}

// Intersects reports whether any damaged tile overlaps the logical rectangle.
func (d *Damage) Intersects(x, y, w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	ty0, ty1, ok := d.rows(y, h)
	if !ok {
		return false
	}
	a, b, n := d.spans(x, w)
	for ty := ty0; ty <= ty1; ty++ {
		for tx := a[0]; tx <= a[1]; tx++ {
			if d.isSet(tx, ty) {
				return true
			}
		}
		if n == 2 {
			for tx := b[0]; tx <= b[1]; tx++ {
				if d.isSet(tx, ty) {
					return true
				}
			}
		}
	}
	return false
}

// MarkAll marks the whole canvas as damaged.
func (d *Damage) MarkAll() {
	total := d.tilesX * d.tilesY
	full := total / 64
	for i := range full {
		d.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		d.words[full].Store((uint64(1) << rem) - 1)
	}
}

// Clear marks every tile clean.
func (d *Damage) Clear() {
	for i := range d.words {
		d.words[i].Store(0)
	}
}

// IsEmpty reports whether no tile is damaged.
func (d *Damage) IsEmpty() bool {
	for i := range d.words {
		if d.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of damaged tiles.
func (d *Damage) Count() int {
	n := 0
	for i := range d.words {
		n += bits.OnesCount64(d.words[i].Load())
	}
	return n
}

// Package render produces viewport frames from the canvas and its posters.
//
// A frame is built in three passes over horizontal bands of the screen:
//
//  1. canvas projection: every screen pixel copies the canvas pixel under
//     its center
//  2. poster compositing, in poster list order
//  3. UI layers, drawn once over the whole frame on the calling goroutine
//
// Passes 1 and 2 run per band on a worker pool. Each band writes only its
// own rows and reads only frame-constant inputs, so the result does not
// depend on how bands are scheduled.
package render

import (
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/Atorque/rickboard/internal/canvas"
	"github.com/Atorque/rickboard/internal/logging"
	"github.com/Atorque/rickboard/internal/overlay"
	"github.com/Atorque/rickboard/internal/parallel"
	"github.com/Atorque/rickboard/internal/projection"
)

// Void is the color of screen rows that fall outside the canvas height.
var Void = color.RGBA{24, 24, 24, 255}

// Layer draws on top of a finished frame. UI widgets implement it.
type Layer interface {
	Draw(dst *image.RGBA)
}

// LayerFunc adapts a function to the Layer interface.
type LayerFunc func(dst *image.RGBA)

// Draw calls f(dst).
func (f LayerFunc) Draw(dst *image.RGBA) { f(dst) }

// Stats describes the last rendered frame.
type Stats struct {
	BandsTotal    int
	BandsRendered int

	// Full is true when the cached frame could not be reused.
	Full bool

	TimeBands time.Duration
	TimeTotal time.Duration
}

// Renderer turns canvas state into frames.
//
// Between frames the renderer keeps the composited canvas and posters. If
// the next frame has the same viewport and poster generation, only bands
// showing canvas tiles damaged since the previous frame are recomputed.
// The renderer consumes the store's damage: it clears it after every
// frame, so a store should feed a single renderer.
//
// Render must be called from the goroutine that mutates the store and the
// compositor.
type Renderer struct {
	store   *canvas.Store
	posters *overlay.Compositor
	proj    projection.Projector

	pool    *parallel.WorkerPool
	workers int

	base    []byte
	out     *image.RGBA
	samples projection.SampleMap
	lastVP  projection.Viewport
	lastGen uint64
	valid   bool

	statsMu sync.RWMutex
	stats   Stats
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWorkers sets the number of render workers.
// If n <= 0, GOMAXPROCS is used.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		r.workers = n
	}
}

// New creates a renderer for store and posters. posters may be nil.
func New(store *canvas.Store, posters *overlay.Compositor, opts ...Option) *Renderer {
	if posters == nil {
		posters = overlay.NewCompositor(store.Width(), store.Height())
	}
	r := &Renderer{
		store:   store,
		posters: posters,
		proj:    projection.New(store.Width(), store.Height()),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pool = parallel.NewWorkerPool(r.workers)
	return r
}

// Workers returns the number of render workers.
func (r *Renderer) Workers() int { return r.pool.Workers() }

// Invalidate forces the next frame to be rendered in full.
func (r *Renderer) Invalidate() { r.valid = false }

// Render draws the frame for vp and returns it. The returned image is
// owned by the renderer and overwritten by the next call.
func (r *Renderer) Render(vp projection.Viewport, layers ...Layer) *image.RGBA {
	start := time.Now()
	vp = r.proj.Normalize(vp)

	full := !r.valid || vp != r.lastVP || r.posters.Generation() != r.lastGen
	if full {
		r.resize(vp)
		r.samples = r.proj.Samples(vp)
	}

	bands := parallel.Bands(vp.Height, r.pool.Workers())
	work := make([]func(), 0, len(bands))
	damage := r.store.Damage()
	for _, b := range bands {
		if !full && !r.bandDamaged(damage, vp, b) {
			continue
		}
		work = append(work, func() { r.renderBand(vp, b) })
	}

	startBands := time.Now()
	r.pool.ExecuteAll(work)
	bandsTime := time.Since(startBands)

	damage.Clear()
	r.lastVP = vp
	r.lastGen = r.posters.Generation()
	r.valid = true

	copy(r.out.Pix, r.base)
	for _, l := range layers {
		if l != nil {
			l.Draw(r.out)
		}
	}

	stats := Stats{
		BandsTotal:    len(bands),
		BandsRendered: len(work),
		Full:          full,
		TimeBands:     bandsTime,
		TimeTotal:     time.Since(start),
	}
	r.statsMu.Lock()
	r.stats = stats
	r.statsMu.Unlock()

	logging.Logger().Debug("render: frame",
		"bands", stats.BandsTotal, "rendered", stats.BandsRendered,
		"full", full, "elapsed", stats.TimeTotal)
	return r.out
}

func (r *Renderer) resize(vp projection.Viewport) {
	n := vp.Width * vp.Height * 4
	if r.out == nil || r.out.Rect.Dx() != vp.Width || r.out.Rect.Dy() != vp.Height {
		r.out = image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	}
	if len(r.base) != n {
		r.base = make([]byte, n)
	}
}

// bandDamaged reports whether band b shows any damaged canvas tile.
func (r *Renderer) bandDamaged(d *canvas.Damage, vp projection.Viewport, b parallel.Band) bool {
	lo, hi := int32(-1), int32(-1)
	for _, row := range r.samples.Rows[b.Y0:b.Y1] {
		if row < 0 {
			continue
		}
		if lo < 0 || row < lo {
			lo = row
		}
		hi = max(hi, row)
	}
	if lo < 0 {
		return false
	}
	x := int(vp.PanX)
	w := int(float64(vp.Width)/vp.Zoom) + 2
	return d.Intersects(x, int(lo), w, int(hi-lo)+1)
}

// renderBand projects the canvas into rows [b.Y0, b.Y1) and composites
// the posters over them.
func (r *Renderer) renderBand(vp projection.Viewport, b parallel.Band) {
	stride := vp.Width * 4
	pix := r.store.Pix()
	cw := r.store.Width()
	cols := r.samples.Cols

	for j := b.Y0; j < b.Y1; j++ {
		line := r.base[j*stride : (j+1)*stride]
		row := r.samples.Rows[j]
		if row < 0 {
			for i := 0; i < len(line); i += 4 {
				line[i], line[i+1], line[i+2], line[i+3] = Void.R, Void.G, Void.B, Void.A
			}
			continue
		}

		src := pix[int(row)*cw*4 : (int(row)+1)*cw*4]
		for i := 0; i < len(cols); {
			// Copy runs of consecutive source columns in one go.
			n := 1
			for i+n < len(cols) && cols[i+n] == cols[i]+int32(n) {
				n++
			}
			c := int(cols[i]) * 4
			copy(line[i*4:(i+n)*4], src[c:c+n*4])
			i += n
		}
	}

	r.posters.CompositeRows(r.base, stride, vp, b.Y0, b.Y1)
}

// Stats returns statistics for the last frame.
func (r *Renderer) Stats() Stats {
	r.statsMu.RLock()
	defer r.statsMu.RUnlock()
	return r.stats
}

// Close stops the worker pool.
func (r *Renderer) Close() {
	r.pool.Close()
}

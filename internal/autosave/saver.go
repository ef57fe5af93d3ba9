package autosave

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/Atorque/rickboard/internal/canvas"
	"github.com/Atorque/rickboard/internal/logging"
)

// WriteFunc persists one canvas snapshot, reporting progress in [0, 1].
type WriteFunc func(h canvas.Header, pix []byte, progress func(float64)) error

// FileWriter returns a WriteFunc that saves to the canvas file at path.
func FileWriter(path string) WriteFunc {
	return func(h canvas.Header, pix []byte, progress func(float64)) error {
		return canvas.WriteFile(path, h, pix, progress)
	}
}

type result struct {
	gen     uint64
	buf     []byte
	err     error
	elapsed time.Duration
}

// Saver writes canvas snapshots on a background goroutine, one at a time.
//
// The snapshot is copied on the calling goroutine, so the store may be
// edited as soon as Request returns. A request made while a save is in
// flight is held and merged with any later ones; it starts when the
// current save finishes, unless it was not forced and nothing changed in
// the meantime.
//
// Each save copies into a fresh buffer that is released once the write
// finishes, so an idle saver holds no canvas-sized memory.
//
// Request, Poll, Wait and Flush must be called from the goroutine that
// mutates the store. Saving and Progress are safe from anywhere.
type Saver struct {
	store   *canvas.Store
	tracker *Tracker
	write   WriteFunc

	done chan result

	inflight      atomic.Bool
	pending       bool
	pendingForced bool

	progress atomic.Uint64

	writes   int
	failures int
}

// NewSaver returns a saver that snapshots store and clears tracker when a
// write succeeds.
func NewSaver(store *canvas.Store, tracker *Tracker, write WriteFunc) *Saver {
	return &Saver{
		store:   store,
		tracker: tracker,
		write:   write,
		done:    make(chan result, 1),
	}
}

// Request asks for a save. Unforced requests are dropped when the tracker
// is clean.
func (s *Saver) Request(forced bool) {
	if s.inflight.Load() {
		s.pending = true
		s.pendingForced = s.pendingForced || forced
		return
	}
	if !forced && !s.tracker.Dirty() {
		return
	}
	s.start()
}

func (s *Saver) start() {
	gen := s.tracker.Current()
	buf := s.store.CopyTo(nil)
	h := s.store.Header()

	s.setProgress(0)
	s.inflight.Store(true)
	go func() {
		start := time.Now()
		err := s.write(h, buf, s.setProgress)
		s.done <- result{gen: gen, buf: buf, err: err, elapsed: time.Since(start)}
	}()
}

func (s *Saver) setProgress(f float64) {
	s.progress.Store(math.Float64bits(f))
}

// Poll handles a finished save, if any, and starts a held request. It
// returns the error of the save it handled.
func (s *Saver) Poll() error {
	select {
	case res := <-s.done:
		return s.finish(res)
	default:
		return nil
	}
}

func (s *Saver) finish(res result) error {
	s.inflight.Store(false)

	log := logging.Logger()
	if res.err != nil {
		s.failures++
		log.Warn("autosave: save failed", "err", res.err)
	} else {
		s.writes++
		s.tracker.MarkSaved(res.gen)
		s.setProgress(1)
		log.Info("autosave: saved", "bytes", len(res.buf), "elapsed", res.elapsed)
	}

	if s.pending {
		forced := s.pendingForced
		s.pending, s.pendingForced = false, false
		if forced || s.tracker.Dirty() {
			s.start()
		}
	}
	return res.err
}

// Wait blocks until no save is in flight, including held requests that
// start along the way. It returns the last error seen.
func (s *Saver) Wait() error {
	var err error
	for s.inflight.Load() {
		err = s.finish(<-s.done)
	}
	return err
}

// Flush performs a final unconditional save and waits for it.
func (s *Saver) Flush() error {
	_ = s.Wait()
	s.start()
	return s.Wait()
}

// Saving reports whether a write is in flight.
func (s *Saver) Saving() bool { return s.inflight.Load() }

// Progress returns the progress of the current or last write in [0, 1].
func (s *Saver) Progress() float64 {
	return math.Float64frombits(s.progress.Load())
}

// Writes returns the number of successful saves.
func (s *Saver) Writes() int { return s.writes }

// Failures returns the number of failed saves.
func (s *Saver) Failures() int { return s.failures }

// Package autosave decides when the canvas is written to disk and runs the
// writes in the background.
//
// Dirty state is derived from mutation counters rather than a flag: the
// tracker remembers the counter value captured by the last successful
// save, so edits made while a save is in flight keep the canvas dirty.
package autosave

import "time"

// DefaultPeriod is the autosave countdown.
const DefaultPeriod = 60 * time.Second

// Source is anything with a mutation counter that only increases.
type Source interface {
	Generation() uint64
}

// Tracker reports whether sources changed since the last save.
type Tracker struct {
	sources []Source
	saved   uint64
}

// NewTracker returns a tracker over sources that starts clean.
func NewTracker(sources ...Source) *Tracker {
	t := &Tracker{sources: sources}
	t.saved = t.Current()
	return t
}

// Current returns the combined counter of all sources.
func (t *Tracker) Current() uint64 {
	var g uint64
	for _, s := range t.sources {
		g += s.Generation()
	}
	return g
}

// Dirty reports whether anything changed since the last MarkSaved.
func (t *Tracker) Dirty() bool { return t.Current() != t.saved }

// MarkSaved records that the state at counter gen is on disk.
func (t *Tracker) MarkSaved(gen uint64) { t.saved = gen }

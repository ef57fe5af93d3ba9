package rickboard

import (
	"testing"
	"time"

	"github.com/Atorque/rickboard/internal/autosave"
	"github.com/Atorque/rickboard/internal/canvas"
)

func apply(opts ...Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()

	if o.canvasPath != DefaultCanvasPath || o.manifestPath != DefaultManifestPath || o.posterDir != DefaultPosterDir {
		t.Errorf("paths = %q %q %q, want defaults", o.canvasPath, o.manifestPath, o.posterDir)
	}
	if o.width != canvas.DefaultWidth || o.height != canvas.DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", o.width, o.height, canvas.DefaultWidth, canvas.DefaultHeight)
	}
	if o.mode != Blackboard {
		t.Errorf("mode = %v, want Blackboard", o.mode)
	}
	if o.autosave != autosave.DefaultPeriod {
		t.Errorf("autosave = %v, want %v", o.autosave, autosave.DefaultPeriod)
	}
	if !o.ui {
		t.Error("ui = false, want true")
	}
	if o.now == nil {
		t.Error("now = nil")
	}
}

func TestOptions(t *testing.T) {
	fixed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	o := apply(
		WithCanvasPath("a.data"),
		WithManifestPath("a.json"),
		WithPosterDir("imgs"),
		WithSize(1200, 300),
		WithMode(Whiteboard),
		WithViewport(640, 480),
		WithWorkers(3),
		WithAutosavePeriod(5*time.Second),
		WithUI(false),
		WithClock(func() time.Time { return fixed }),
	)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"canvasPath", o.canvasPath, "a.data"},
		{"manifestPath", o.manifestPath, "a.json"},
		{"posterDir", o.posterDir, "imgs"},
		{"width", o.width, 1200},
		{"height", o.height, 300},
		{"mode", o.mode, Whiteboard},
		{"viewWidth", o.viewWidth, 640},
		{"viewHeight", o.viewHeight, 480},
		{"workers", o.workers, 3},
		{"autosave", o.autosave, 5 * time.Second},
		{"ui", o.ui, false},
		{"now", o.now(), fixed},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	o := apply(WithMode(Mode(9)), WithClock(nil))
	if o.mode != Blackboard {
		t.Errorf("WithMode(9) mode = %v, want Blackboard", o.mode)
	}
	if o.now == nil {
		t.Error("WithClock(nil) cleared the clock")
	}
}

func TestWithAutosavePeriod_NonPositiveUsesDefault(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	b := reopen(t, t.TempDir(), c, WithAutosavePeriod(0))
	if got := b.Telemetry().Countdown; got != autosave.DefaultPeriod {
		t.Errorf("Countdown = %v, want %v", got, autosave.DefaultPeriod)
	}
}

package rickboard

import (
	"time"

	"github.com/Atorque/rickboard/internal/autosave"
	"github.com/Atorque/rickboard/internal/canvas"
)

// Default configuration.
const (
	DefaultCanvasPath   = "rickboard.data"
	DefaultManifestPath = "posters.json"
	DefaultPosterDir    = "posters"

	DefaultViewWidth  = 1024
	DefaultViewHeight = 768
)

// Option configures a Board during Open.
//
// Example:
//
//	// Default board in the working directory
//	b, err := rickboard.Open()
//
//	// Small whiteboard with its own files
//	b, err := rickboard.Open(
//	    rickboard.WithCanvasPath("notes.data"),
//	    rickboard.WithSize(4000, 600),
//	    rickboard.WithMode(rickboard.Whiteboard),
//	)
type Option func(*options)

// options holds the configuration collected from Option values.
type options struct {
	canvasPath   string
	manifestPath string
	posterDir    string

	width  int
	height int
	mode   Mode

	viewWidth  int
	viewHeight int

	workers  int
	autosave time.Duration
	ui       bool

	now func() time.Time
}

// defaultOptions returns the configuration used when no option overrides it.
func defaultOptions() options {
	return options{
		canvasPath:   DefaultCanvasPath,
		manifestPath: DefaultManifestPath,
		posterDir:    DefaultPosterDir,
		width:        canvas.DefaultWidth,
		height:       canvas.DefaultHeight,
		mode:         Blackboard,
		viewWidth:    DefaultViewWidth,
		viewHeight:   DefaultViewHeight,
		workers:      0, // GOMAXPROCS
		autosave:     autosave.DefaultPeriod,
		ui:           true,
		now:          time.Now,
	}
}

// WithCanvasPath sets the canvas file. An empty path keeps the canvas in
// memory only.
func WithCanvasPath(path string) Option {
	return func(o *options) {
		o.canvasPath = path
	}
}

// WithManifestPath sets the poster manifest file. An empty path keeps the
// posters in memory only.
func WithManifestPath(path string) Option {
	return func(o *options) {
		o.manifestPath = path
	}
}

// WithPosterDir sets the directory dropped poster files are copied into.
func WithPosterDir(dir string) Option {
	return func(o *options) {
		o.posterDir = dir
	}
}

// WithSize sets the dimensions of a newly created canvas. A canvas loaded
// from disk keeps the dimensions stored in its file.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithMode sets the mode of a newly created canvas.
func WithMode(m Mode) Option {
	return func(o *options) {
		if m.IsValid() {
			o.mode = m
		}
	}
}

// WithViewport sets the initial screen size in pixels.
func WithViewport(width, height int) Option {
	return func(o *options) {
		o.viewWidth, o.viewHeight = width, height
	}
}

// WithWorkers sets the number of render workers.
// If n <= 0, GOMAXPROCS is used.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithAutosavePeriod sets the autosave countdown.
// A non-positive period selects the 60 second default.
func WithAutosavePeriod(d time.Duration) Option {
	return func(o *options) {
		o.autosave = d
	}
}

// WithUI enables or disables the heads-up display drawn over each frame.
func WithUI(enabled bool) Option {
	return func(o *options) {
		o.ui = enabled
	}
}

// WithClock replaces the time source used for autosave and frame timing.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

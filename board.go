package rickboard

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/Atorque/rickboard/internal/autosave"
	"github.com/Atorque/rickboard/internal/canvas"
	"github.com/Atorque/rickboard/internal/hud"
	ibuf "github.com/Atorque/rickboard/internal/image"
	"github.com/Atorque/rickboard/internal/logging"
	"github.com/Atorque/rickboard/internal/overlay"
	"github.com/Atorque/rickboard/internal/projection"
	"github.com/Atorque/rickboard/internal/render"
	"github.com/Atorque/rickboard/internal/undo"
)

// Mode selects the board's appearance.
type Mode = canvas.Mode

// Board modes.
const (
	Blackboard = canvas.Blackboard
	Whiteboard = canvas.Whiteboard
)

// Viewport is the on-screen window into the canvas.
type Viewport = projection.Viewport

// Point is a logical canvas position. X may lie outside [0, W).
type Point = canvas.Point

// Board is the application state of one drawing surface: the canvas, its
// posters, the view onto them, undo history, brush and autosave.
//
// A Board is driven by a single main loop. Its methods are not safe for
// concurrent use; rendering and saving fan out internally.
type Board struct {
	opts options

	store   *canvas.Store
	origin  canvas.Origin
	posters *overlay.Compositor
	proj    projection.Projector
	vp      Viewport
	history *undo.Manager

	tracker *autosave.Tracker
	policy  *autosave.Policy
	saver   *autosave.Saver

	renderer *render.Renderer
	layers   []render.Layer

	brush     Brush
	stroking  bool
	lastPoint Point

	fps       float64
	lastFrame time.Time
	closed    bool
}

// Brush is the current drawing tool.
type Brush struct {
	Name   string
	Color  color.RGBA
	Size   int
	Eraser bool
}

// Radius returns the disc radius stamped by the brush.
func (b Brush) Radius() int { return b.Size / 2 }

// Open loads the board described by opts, creating a fresh canvas when the
// canvas file is missing or unusable.
//
// An unreadable or corrupt canvas file is logged and replaced by a default
// canvas; it is not an error. Open fails only when no canvas can be
// allocated at all.
func Open(opts ...Option) (*Board, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.Logger()

	var (
		store  *canvas.Store
		origin = canvas.CreatedDefault
		err    error
	)
	if o.canvasPath != "" {
		store, origin, err = canvas.Load(o.canvasPath, o.width, o.height, o.mode)
		if store == nil {
			return nil, fmt.Errorf("rickboard: open: %w", err)
		}
		if err != nil {
			log.Warn("rickboard: using default canvas", "path", o.canvasPath, "err", err)
		}
	} else {
		store, err = canvas.New(o.width, o.height, o.mode)
		if err != nil {
			return nil, fmt.Errorf("rickboard: open: %w", err)
		}
	}
	log.Info("rickboard: canvas ready",
		"origin", origin, "width", store.Width(), "height", store.Height(), "mode", store.Mode())

	posters := overlay.NewCompositor(store.Width(), store.Height())
	if o.manifestPath != "" {
		skipped, err := posters.Load(o.manifestPath)
		if err != nil {
			log.Warn("rickboard: posters not loaded", "path", o.manifestPath, "err", err)
		}
		if skipped > 0 {
			log.Warn("rickboard: skipped poster records", "count", skipped)
		}
	}

	write := autosave.FileWriter(o.canvasPath)
	if o.canvasPath == "" {
		write = func(canvas.Header, []byte, func(float64)) error { return nil }
	}

	now := o.now()
	tracker := autosave.NewTracker(store, posters)
	b := &Board{
		opts:     o,
		store:    store,
		origin:   origin,
		posters:  posters,
		proj:     projection.New(store.Width(), store.Height()),
		history:  undo.New(),
		tracker:  tracker,
		policy:   autosave.NewPolicy(o.autosave, now),
		saver:    autosave.NewSaver(store, tracker, write),
		renderer: render.New(store, posters, render.WithWorkers(o.workers)),
		brush:    defaultBrush(store.Mode()),
	}
	b.vp = b.proj.Normalize(Viewport{Zoom: 1, Width: o.viewWidth, Height: o.viewHeight})
	if o.ui {
		b.layers = append(b.layers, hud.New(b.hudState))
	}
	return b, nil
}

func defaultBrush(m Mode) Brush {
	c := m.PenColor()
	return Brush{Name: markerName(c), Color: c, Size: canvas.DefaultBrushSize}
}

func markerName(c color.RGBA) string {
	for _, mk := range canvas.Markers {
		if mk.Color == c {
			return mk.Name
		}
	}
	return "custom"
}

// Width returns the canvas circumference in pixels.
func (b *Board) Width() int { return b.store.Width() }

// Height returns the canvas height in pixels.
func (b *Board) Height() int { return b.store.Height() }

// Mode returns the current board mode.
func (b *Board) Mode() Mode { return b.store.Mode() }

// LoadedFromFile reports whether the canvas was read from disk at Open.
func (b *Board) LoadedFromFile() bool { return b.origin == canvas.FromFile }

// Pixel returns the canvas color at logical (x, y).
func (b *Board) Pixel(x, y int) color.RGBA { return b.store.ReadPixel(x, y) }

// Brush returns the current brush.
func (b *Board) Brush() Brush { return b.brush }

// Palette returns the markers offered in the current mode.
func (b *Board) Palette() []canvas.Marker { return b.store.Mode().Palette() }

// Viewport returns the current view.
func (b *Board) Viewport() Viewport { return b.vp }

// ---------------------------------------------------------------------------
// Drawing
// ---------------------------------------------------------------------------

func (b *Board) strokeColor() color.RGBA {
	if b.brush.Eraser {
		return b.store.Mode().Background()
	}
	return b.brush.Color
}

// BeginStroke starts a free-hand stroke at screen position (sx, sy). The
// canvas state before the stroke becomes an undo step.
func (b *Board) BeginStroke(sx, sy float64) {
	b.history.Push(b.store)
	x, y := b.proj.ToLogicalF(sx, sy, b.vp)
	b.lastPoint = Point{X: x, Y: y}
	b.stroking = true
	b.store.StrokeSegment(b.lastPoint, b.lastPoint, b.brush.Radius(), b.strokeColor())
}

// ExtendStroke continues the current stroke to screen position (sx, sy).
// It does nothing when no stroke is active.
func (b *Board) ExtendStroke(sx, sy float64) {
	if !b.stroking {
		return
	}
	x, y := b.proj.ToLogicalF(sx, sy, b.vp)
	p := Point{X: x, Y: y}
	b.store.StrokeSegment(b.lastPoint, p, b.brush.Radius(), b.strokeColor())
	b.lastPoint = p
}

// EndStroke finishes the current stroke.
func (b *Board) EndStroke() {
	b.stroking = false
}

// DrawStroke paints a complete stroke through logical points with the
// given color and radius, as one undo step. The radius is clamped to
// [0, MaxBrushSize/2].
func (b *Board) DrawStroke(points []Point, c color.RGBA, radius int) {
	if len(points) == 0 {
		return
	}
	b.history.Push(b.store)
	b.store.StrokePath(points, canvas.ClampRadius(radius), c)
}

// SelectColor picks a marker by name and leaves eraser mode.
func (b *Board) SelectColor(name string) error {
	c, ok := canvas.MarkerByName(name)
	if !ok {
		return fmt.Errorf("rickboard: unknown color %q", name)
	}
	b.brush.Name, b.brush.Color, b.brush.Eraser = name, c, false
	return nil
}

// SetEraser switches between the eraser and the selected marker.
func (b *Board) SetEraser(on bool) { b.brush.Eraser = on }

// SetBrushSize sets the brush diameter, clamped to [1, 100].
func (b *Board) SetBrushSize(size int) {
	b.brush.Size = canvas.ClampBrushSize(size)
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// Pan scrolls the view by (dx, dy) screen pixels.
func (b *Board) Pan(dx, dy float64) { b.vp = b.proj.Pan(b.vp, dx, dy) }

// ZoomAt multiplies the zoom by factor around screen position (sx, sy).
func (b *Board) ZoomAt(factor, sx, sy float64) { b.vp = b.proj.ZoomAt(b.vp, factor, sx, sy) }

// Resize changes the screen size.
func (b *Board) Resize(width, height int) { b.vp = b.proj.Resize(b.vp, width, height) }

// SetViewport replaces the view. It is normalized like any other change.
func (b *Board) SetViewport(vp Viewport) { b.vp = b.proj.Normalize(vp) }

// ToLogical returns the logical pixel under screen position (sx, sy).
func (b *Board) ToLogical(sx, sy float64) (x, y int) { return b.proj.ToLogical(sx, sy, b.vp) }

// ToScreen projects logical (x, y) onto the screen.
func (b *Board) ToScreen(x, y float64) (sx, sy float64, ok bool) { return b.proj.ToScreen(x, y, b.vp) }

// ---------------------------------------------------------------------------
// Whole-canvas edits
// ---------------------------------------------------------------------------

// ToggleMode switches between blackboard and whiteboard, swapping pure
// black and white across the canvas, and saves right away.
func (b *Board) ToggleMode() {
	b.history.Push(b.store)
	b.store.ToggleMode()
	b.followMode()
	b.Save()
}

// followMode keeps an extremal brush visible after a mode change.
func (b *Board) followMode() {
	if canvas.IsExtremal(b.brush.Color) && b.brush.Color == b.store.Mode().Background() {
		b.brush.Color = canvas.Swap(b.brush.Color)
		b.brush.Name = markerName(b.brush.Color)
	}
}

// Clear erases the canvas to the background color and saves.
func (b *Board) Clear() {
	b.history.Push(b.store)
	b.store.Clear()
	b.Save()
}

// Undo restores the canvas as it was before the last stroke, clear or mode
// toggle. It returns ErrEmptyStack when there is no history.
func (b *Board) Undo() error {
	if err := b.history.PopAndRestore(b.store); err != nil {
		logging.Logger().Debug("rickboard: undo", "err", err)
		return err
	}
	b.followMode()
	return nil
}

// UndoDepth returns the number of steps that can be undone.
func (b *Board) UndoDepth() int { return b.history.Len() }

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

// Save writes the canvas and posters now, whether or not anything changed,
// and restarts the autosave countdown. The canvas write runs in the
// background; a save already in flight is followed by this one.
func (b *Board) Save() {
	b.saver.Request(true)
	b.policy.Reset(b.opts.now())
	_ = b.savePosters()
}

// Tick runs the autosave policy at now. Frame calls it.
func (b *Board) Tick(now time.Time) {
	_ = b.saver.Poll()
	if b.policy.Tick(now, b.tracker.Dirty()) {
		b.saver.Request(false)
	}
}

// WaitSaved blocks until no canvas write is in flight and returns the last
// write error.
func (b *Board) WaitSaved() error { return b.saver.Wait() }

// Dirty reports whether the canvas or posters changed since the last
// successful save.
func (b *Board) Dirty() bool { return b.tracker.Dirty() }

func (b *Board) savePosters() error {
	if b.opts.manifestPath == "" {
		return nil
	}
	if err := b.posters.Save(b.opts.manifestPath); err != nil {
		logging.Logger().Warn("rickboard: poster manifest not saved", "err", err)
		return err
	}
	return nil
}

// Close performs the final save and stops the render workers. The board
// must not be used afterwards.
func (b *Board) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	defer b.renderer.Close()
	return errors.Join(b.saver.Flush(), b.savePosters())
}

// Discard stops the render workers without the final save. Neither the
// canvas file nor the poster manifest is written, so a board opened only
// to be read leaves its files as they were. A write already in flight is
// still waited for. The board must not be used afterwards.
func (b *Board) Discard() error {
	if b.closed {
		return nil
	}
	b.closed = true
	defer b.renderer.Close()
	return b.saver.Wait()
}

// ---------------------------------------------------------------------------
// Posters
// ---------------------------------------------------------------------------

// PosterInfo describes a placed poster.
type PosterInfo struct {
	ID     string
	Name   string
	X, Y   int
	Width  int
	Height int
	Scale  float64
}

func posterInfo(p overlay.Poster) PosterInfo {
	return PosterInfo{
		ID: p.ID, Name: p.Name, X: p.X, Y: p.Y,
		Width: p.Width(), Height: p.Height(), Scale: p.Scale,
	}
}

// Posters lists the posters in draw order.
func (b *Board) Posters() []PosterInfo {
	list := b.posters.Posters()
	out := make([]PosterInfo, len(list))
	for i, p := range list {
		out[i] = posterInfo(p)
	}
	return out
}

// PlacePoster pins img at logical (x, y) and returns the poster ID. The
// returned error reports a failed manifest write; the poster is placed
// regardless.
func (b *Board) PlacePoster(name string, img image.Image, x, y int) (string, error) {
	buf, err := ibuf.FromImage(img)
	if err != nil {
		return "", fmt.Errorf("rickboard: place poster: %w", err)
	}
	id := b.posters.Place(name, buf, x, y)
	return id, b.savePosters()
}

// ImportPoster copies the image file at path into the poster directory and
// pins it at screen position (sx, sy).
func (b *Board) ImportPoster(path string, sx, sy float64) (string, error) {
	x, y := b.proj.ToLogical(sx, sy, b.vp)
	return b.ImportPosterAt(path, x, y)
}

// ImportPosterAt is ImportPoster for a logical position.
func (b *Board) ImportPosterAt(path string, x, y int) (string, error) {
	p, err := overlay.ImportFile(path, b.opts.posterDir)
	if err != nil {
		return "", err
	}
	b.posters.Add(p, x, y)
	logging.Logger().Info("rickboard: poster imported", "name", p.Name, "x", p.X, "y", p.Y)
	return p.ID, b.savePosters()
}

// MovePoster moves poster id to logical (x, y).
func (b *Board) MovePoster(id string, x, y int) error {
	if err := b.posters.Move(id, x, y); err != nil {
		return err
	}
	return b.savePosters()
}

// ScalePoster multiplies the scale of poster id by factor.
func (b *Board) ScalePoster(id string, factor float64) error {
	if err := b.posters.Scale(id, factor); err != nil {
		return err
	}
	return b.savePosters()
}

// DeletePoster removes poster id.
func (b *Board) DeletePoster(id string) error {
	if err := b.posters.Delete(id); err != nil {
		return err
	}
	return b.savePosters()
}

// PosterAt returns the topmost poster under screen position (sx, sy).
func (b *Board) PosterAt(sx, sy float64) (PosterInfo, bool) {
	x, y := b.proj.ToLogicalF(sx, sy, b.vp)
	p, ok := b.posters.At(x, y)
	if !ok {
		return PosterInfo{}, false
	}
	return posterInfo(p), true
}

// ---------------------------------------------------------------------------
// Frames
// ---------------------------------------------------------------------------

// Frame advances autosave to now and renders the current view. The image
// is reused by the next call.
func (b *Board) Frame(now time.Time) *image.RGBA {
	if !b.lastFrame.IsZero() {
		if dt := now.Sub(b.lastFrame).Seconds(); dt > 0 {
			inst := 1 / dt
			if b.fps == 0 {
				b.fps = inst
			} else {
				b.fps = b.fps*0.9 + inst*0.1
			}
		}
	}
	b.lastFrame = now

	b.Tick(now)
	return b.renderer.Render(b.vp, b.layers...)
}

// RenderView renders vp without UI layers and without touching autosave.
// Exports use it to walk the canvas page by page.
func (b *Board) RenderView(vp Viewport) *image.RGBA {
	return b.renderer.Render(vp)
}

// Telemetry is the read-only state shown by a UI.
type Telemetry struct {
	FPS       float64
	Mode      Mode
	Zoom      float64
	Brush     Brush
	Dirty     bool
	Countdown time.Duration
	Saving    bool
	Progress  float64
	Saves     int
	Posters   int
	UndoDepth int
}

// Telemetry returns the current telemetry.
func (b *Board) Telemetry() Telemetry {
	return Telemetry{
		FPS:       b.fps,
		Mode:      b.store.Mode(),
		Zoom:      b.vp.Zoom,
		Brush:     b.brush,
		Dirty:     b.tracker.Dirty(),
		Countdown: b.policy.Remaining(b.opts.now()),
		Saving:    b.saver.Saving(),
		Progress:  b.saver.Progress(),
		Saves:     b.saver.Writes(),
		Posters:   b.posters.Len(),
		UndoDepth: b.history.Len(),
	}
}

func (b *Board) hudState() hud.State {
	t := b.Telemetry()
	return hud.State{
		FPS:          t.FPS,
		Mode:         t.Mode,
		Zoom:         t.Zoom,
		BrushName:    t.Brush.Name,
		BrushColor:   t.Brush.Color,
		BrushSize:    t.Brush.Size,
		Eraser:       t.Brush.Eraser,
		Countdown:    b.policy.Fraction(b.opts.now()),
		Dirty:        t.Dirty,
		Saving:       t.Saving,
		SaveProgress: t.Progress,
	}
}

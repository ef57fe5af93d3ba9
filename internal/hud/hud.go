// Package hud draws the heads-up display over a finished frame: the
// autosave countdown bar, a save indicator and a status line with mode,
// brush, zoom and frame rate.
package hud

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Atorque/rickboard/internal/canvas"
)

// BarHeight is the height of the countdown bar at the top of the frame.
const BarHeight = 4

var (
	panelColor  = color.RGBA{0, 0, 0, 160}
	textColor   = color.RGBA{235, 235, 235, 255}
	idleBar     = color.RGBA{90, 90, 90, 255}
	dirtyBar    = color.RGBA{255, 170, 0, 255}
	savingColor = color.RGBA{80, 200, 120, 255}
)

// State is the telemetry shown by the HUD.
type State struct {
	FPS  float64
	Mode canvas.Mode
	Zoom float64

	BrushName  string
	BrushColor color.RGBA
	BrushSize  int
	Eraser     bool

	// Countdown is the fraction of the autosave period left, 1 to 0.
	Countdown    float64
	Dirty        bool
	Saving       bool
	SaveProgress float64
}

// HUD is a render layer that reads its State from a callback each frame.
type HUD struct {
	state func() State
	face  font.Face
}

// New returns a HUD that draws the state returned by fn.
func New(fn func() State) *HUD {
	return &HUD{state: fn, face: basicfont.Face7x13}
}

// Draw paints the HUD onto dst.
func (h *HUD) Draw(dst *image.RGBA) {
	if h.state == nil {
		return
	}
	s := h.state()
	b := dst.Bounds()

	// Countdown bar.
	barColor := idleBar
	if s.Dirty {
		barColor = dirtyBar
	}
	fill(dst, image.Rect(b.Min.X, b.Min.Y, b.Min.X+int(float64(b.Dx())*clamp01(s.Countdown)), b.Min.Y+BarHeight), barColor)

	if s.Saving {
		label := fmt.Sprintf("Saving... %d%%", int(clamp01(s.SaveProgress)*100))
		w := font.MeasureString(h.face, label).Ceil()
		x := b.Max.X - w - 8
		y := b.Min.Y + BarHeight + 4
		fill(dst, image.Rect(x-4, y, b.Max.X-4, y+lineHeight(h.face)+4), panelColor)
		h.text(dst, x, y+2, label, savingColor)
	}

	line := h.status(s)
	lh := lineHeight(h.face)
	swatch := lh
	w := font.MeasureString(h.face, line).Ceil()
	y := b.Max.Y - lh - 8
	fill(dst, image.Rect(b.Min.X+4, y-2, b.Min.X+4+swatch+w+16, b.Max.Y-4), panelColor)

	sw := s.BrushColor
	if s.Eraser {
		sw = s.Mode.Background()
	}
	fill(dst, image.Rect(b.Min.X+8, y, b.Min.X+8+swatch, y+swatch), sw)
	h.text(dst, b.Min.X+12+swatch, y, line, textColor)
}

func (h *HUD) status(s State) string {
	tool := s.BrushName
	if s.Eraser {
		tool = "eraser"
	}
	return fmt.Sprintf("%s  %s %dpx  zoom %d%%  %.0f fps",
		s.Mode, tool, s.BrushSize, int(s.Zoom*100+0.5), s.FPS)
}

// text draws s with its top-left corner at (x, y).
func (h *HUD) text(dst *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: h.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + h.face.Metrics().Ascent},
	}
	d.DrawString(s)
}

func lineHeight(f font.Face) int {
	return f.Metrics().Height.Ceil()
}

func fill(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

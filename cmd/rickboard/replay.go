package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Atorque/rickboard"
	"github.com/Atorque/rickboard/internal/canvas"
	"github.com/Atorque/rickboard/internal/export"
)

// step is one line of a replay script.
//
//	{"op":"color","name":"red"}
//	{"op":"size","size":8}
//	{"op":"eraser","on":true}
//	{"op":"stroke","points":[[10,20],[60,25]]}        screen coordinates
//	{"op":"line","points":[[79990,500],[10,500]],"name":"blue","size":4}
//	{"op":"pan","dx":-200,"dy":0}
//	{"op":"zoom","factor":1.25,"x":512,"y":384}
//	{"op":"resize","w":1280,"h":720}
//	{"op":"toggle"} {"op":"clear"} {"op":"undo"} {"op":"save"}
//	{"op":"poster","path":"cat.png","x":300,"y":200}  screen drop point
//	{"op":"move","id":"...","x":100,"y":40}
//	{"op":"wait","ms":61000}
//	{"op":"frame","out":"frame.png"}
type step struct {
	Op     string       `json:"op"`
	Name   string       `json:"name,omitempty"`
	Size   int          `json:"size,omitempty"`
	On     bool         `json:"on,omitempty"`
	Points [][2]float64 `json:"points,omitempty"`
	X      float64      `json:"x,omitempty"`
	Y      float64      `json:"y,omitempty"`
	DX     float64      `json:"dx,omitempty"`
	DY     float64      `json:"dy,omitempty"`
	Factor float64      `json:"factor,omitempty"`
	W      int          `json:"w,omitempty"`
	H      int          `json:"h,omitempty"`
	Path   string       `json:"path,omitempty"`
	ID     string       `json:"id,omitempty"`
	MS     int          `json:"ms,omitempty"`
	Out    string       `json:"out,omitempty"`
}

// replayer applies script steps to a board on a virtual clock. Every step
// is followed by a frame so autosave runs as it would interactively.
type replayer struct {
	b     *rickboard.Board
	e     *env
	clock time.Time
	count int
}

func newReplayer(e *env, start time.Time) *replayer {
	return &replayer{e: e, clock: start}
}

func (r *replayer) now() time.Time { return r.clock }

func (r *replayer) run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var s step
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := r.apply(s); err != nil {
			return fmt.Errorf("line %d: %s: %w", line, s.Op, err)
		}
		r.count++
		r.b.Frame(r.clock)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return r.b.WaitSaved()
}

func points(ps [][2]float64) []rickboard.Point {
	out := make([]rickboard.Point, len(ps))
	for i, p := range ps {
		out[i] = rickboard.Point{X: p[0], Y: p[1]}
	}
	return out
}

func (r *replayer) apply(s step) error {
	b := r.b
	switch s.Op {
	case "color":
		return b.SelectColor(s.Name)
	case "size":
		b.SetBrushSize(s.Size)
	case "eraser":
		b.SetEraser(s.On)
	case "stroke":
		if len(s.Points) == 0 {
			return errors.New("no points")
		}
		b.BeginStroke(s.Points[0][0], s.Points[0][1])
		for _, p := range s.Points[1:] {
			b.ExtendStroke(p[0], p[1])
		}
		b.EndStroke()
	case "line":
		c, radius := b.Brush().Color, b.Brush().Radius()
		if s.Name != "" {
			var ok bool
			if c, ok = canvas.MarkerByName(s.Name); !ok {
				return fmt.Errorf("unknown color %q", s.Name)
			}
		}
		if s.Size > 0 {
			radius = canvas.ClampBrushSize(s.Size) / 2
		}
		b.DrawStroke(points(s.Points), c, radius)
	case "pan":
		b.Pan(s.DX, s.DY)
	case "zoom":
		b.ZoomAt(s.Factor, s.X, s.Y)
	case "resize":
		b.Resize(s.W, s.H)
	case "toggle":
		b.ToggleMode()
	case "clear":
		b.Clear()
	case "undo":
		if err := b.Undo(); err != nil {
			if !errors.Is(err, rickboard.ErrEmptyStack) {
				return err
			}
			rickboard.Logger().Info("replay: nothing to undo")
		}
	case "save":
		b.Save()
	case "poster":
		id, err := b.ImportPoster(s.Path, s.X, s.Y)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.e.stdout, id)
	case "move":
		return b.MovePoster(s.ID, int(s.X), int(s.Y))
	case "wait":
		r.clock = r.clock.Add(time.Duration(s.MS) * time.Millisecond)
	case "frame":
		f := b.Frame(r.clock)
		if s.Out == "" {
			return nil
		}
		return writeFrame(s.Out, f)
	default:
		return errors.New("unknown op")
	}
	return nil
}

func writeFrame(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

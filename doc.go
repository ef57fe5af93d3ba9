// Package rickboard is an infinite-feeling drawing board: a very wide
// bitmap whose left and right edges join, viewed through a pan and zoom
// window, with image posters pinned on top.
//
// # Overview
//
// A Board owns the canvas, its posters, the view, a three step undo
// history and the autosave policy. A host loop feeds it input and asks for
// frames:
//
//	b, err := rickboard.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	b.SelectColor("red")
//	b.BeginStroke(100, 200)
//	b.ExtendStroke(140, 210)
//	b.EndStroke()
//
//	frame := b.Frame(time.Now()) // *image.RGBA, reused next frame
//
// # Coordinate System
//
// Logical coordinates address canvas pixels:
//   - Origin (0,0) at the top-left of the canvas
//   - X wraps: x and x+Width() are the same column
//   - Y does not wrap; rows outside [0, Height()) are not part of the canvas
//
// Screen coordinates address frame pixels. Viewport.PanX and PanY give the
// logical point shown at the top-left of the frame and Zoom is screen
// pixels per canvas pixel, between 0.1 and 1.5.
//
// # Persistence
//
// The canvas is a single raw file (a 9 byte header followed by RGBA
// pixels) replaced atomically on every save. Posters live in a JSON
// manifest next to it. A missing or unreadable canvas file never stops
// Open: the board starts from a fresh canvas and logs why.
//
// Saves run in the background. The countdown saves a dirty board every 60
// seconds. Mode toggles and clears write immediately, as does Save.
// Close writes once more and waits.
//
// # Logging
//
// The package is silent by default. Install a *slog.Logger with SetLogger
// to see load fallbacks, saves and per-frame render statistics.
package rickboard

// Version is the current version of the package.
const Version = "0.3.0"

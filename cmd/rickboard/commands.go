package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Atorque/rickboard"
	"github.com/Atorque/rickboard/internal/export"
)

func runInfo(e *env, args []string) (err error) {
	fs, bf := newFlagSet(e, "info")
	if err := fs.Parse(args); err != nil {
		return err
	}
	b, err := bf.open(e)
	if err != nil {
		return err
	}
	defer discardBoard(b, &err)

	origin := "new"
	if b.LoadedFromFile() {
		origin = bf.canvas
	}
	bytes := int64(b.Width()) * int64(b.Height()) * 4
	e.p.Fprintf(e.stdout, "canvas:  %s\n", origin)
	e.p.Fprintf(e.stdout, "size:    %d x %d (%d bytes)\n", b.Width(), b.Height(), bytes)
	e.p.Fprintf(e.stdout, "mode:    %v\n", b.Mode())
	e.p.Fprintf(e.stdout, "posters: %d\n", len(b.Posters()))
	return nil
}

func runRender(e *env, args []string) (err error) {
	fs, bf := newFlagSet(e, "render")
	var (
		x      = fs.Float64("x", 0, "logical x at the left edge")
		y      = fs.Float64("y", 0, "logical y at the top edge")
		zoom   = fs.Float64("zoom", 1, "screen pixels per canvas pixel")
		width  = fs.Int("w", rickboard.DefaultViewWidth, "image width")
		height = fs.Int("h", rickboard.DefaultViewHeight, "image height")
		output = fs.String("o", "view.png", "output file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	b, err := bf.open(e)
	if err != nil {
		return err
	}
	defer discardBoard(b, &err)

	b.SetViewport(rickboard.Viewport{PanX: *x, PanY: *y, Zoom: *zoom, Width: *width, Height: *height})
	if err := writeFrame(*output, b.RenderView(b.Viewport())); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, *output)
	return nil
}

func runExport(e *env, args []string) (err error) {
	fs, bf := newFlagSet(e, "export")
	var (
		zoom      = fs.Float64("zoom", 1, "screen pixels per canvas pixel")
		pageWidth = fs.Int("page-width", rickboard.DefaultViewWidth, "page width in pixels")
		output    = fs.String("o", "rickboard.pdf", "output .pdf file, or a directory for PNG pages")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	b, err := bf.open(e)
	if err != nil {
		return err
	}
	defer discardBoard(b, &err)

	pages := export.Pages(b.Width(), b.Height(), *pageWidth, *zoom)
	if strings.EqualFold(filepath.Ext(*output), ".pdf") {
		title := strings.TrimSuffix(filepath.Base(bf.canvas), filepath.Ext(bf.canvas))
		if err := export.WritePDFFile(*output, title, b.RenderView, pages); err != nil {
			return err
		}
		e.p.Fprintf(e.stdout, "%s: %d pages\n", *output, len(pages))
		return nil
	}

	names, err := export.WritePNGs(*output, "page", b.RenderView, pages)
	if err != nil {
		return err
	}
	e.p.Fprintf(e.stdout, "%s: %d pages\n", *output, len(names))
	return nil
}

func runPoster(e *env, args []string) (err error) {
	if len(args) == 0 {
		return errors.New("poster: want add, ls or rm")
	}
	sub, args := args[0], args[1:]

	fs, bf := newFlagSet(e, "poster "+sub)
	x := fs.Int("x", 0, "logical x of the top-left corner (add)")
	y := fs.Int("y", 0, "logical y of the top-left corner (add)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch sub {
	case "add", "rm":
		if fs.NArg() != 1 {
			return fmt.Errorf("poster %s: want exactly one argument", sub)
		}
	case "ls":
	default:
		return fmt.Errorf("poster: unknown subcommand %q", sub)
	}

	b, err := bf.open(e)
	if err != nil {
		return err
	}
	if sub == "ls" {
		defer discardBoard(b, &err)
	} else {
		defer closeBoard(b, &err)
	}

	switch sub {
	case "add":
		id, err := b.ImportPosterAt(fs.Arg(0), *x, *y)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, id)
	case "rm":
		return b.DeletePoster(fs.Arg(0))
	case "ls":
		for _, p := range b.Posters() {
			fmt.Fprintf(e.stdout, "%s  %-20s  at %d,%d  %dx%d  x%.2f\n",
				p.ID, p.Name, p.X, p.Y, p.Width, p.Height, p.Scale)
		}
	}
	return nil
}

func runReplay(e *env, args []string) (err error) {
	fs, bf := newFlagSet(e, "replay")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("replay: want a script file")
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	r := newReplayer(e, time.Now())
	b, err := bf.open(e, rickboard.WithClock(r.now))
	if err != nil {
		return err
	}
	defer closeBoard(b, &err)

	r.b = b
	if err := r.run(f); err != nil {
		return err
	}
	e.p.Fprintf(e.stdout, "replayed %d commands\n", r.count)
	return nil
}

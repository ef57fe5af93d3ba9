// Package export writes rendered canvas pages to PNG files or a PDF.
//
// The cylinder is unrolled into consecutive viewport-wide pages starting at
// logical x = 0, each showing the full canvas height at the chosen zoom.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/Atorque/rickboard/internal/projection"
)

// PointsPerPixel maps frame pixels to PDF points (96 dpi).
const PointsPerPixel = 0.75

// ErrNoPages is returned when there is nothing to export.
var ErrNoPages = errors.New("export: no pages")

// FrameFunc renders the frame for a viewport. The returned image only
// needs to stay valid until the next call.
type FrameFunc func(vp projection.Viewport) *image.RGBA

// Pages lays out viewport-wide pages covering the whole circumference of a
// canvasW x canvasH canvas at zoom. The last page is narrower when the
// width does not divide evenly.
func Pages(canvasW, canvasH, pageWidth int, zoom float64) []projection.Viewport {
	zoom = projection.ClampZoom(zoom)
	if canvasW <= 0 || canvasH <= 0 || pageWidth <= 0 {
		return nil
	}
	total := int(math.Ceil(float64(canvasW) * zoom))
	height := max(1, int(math.Ceil(float64(canvasH)*zoom)))

	var pages []projection.Viewport
	for x := 0; x < total; x += pageWidth {
		pages = append(pages, projection.Viewport{
			PanX:   float64(x) / zoom,
			Zoom:   zoom,
			Width:  min(pageWidth, total-x),
			Height: height,
		})
	}
	return pages
}

// WritePNGs renders each page into dir as <prefix>-NNN.png and returns the
// file names written.
func WritePNGs(dir, prefix string, frame FrameFunc, pages []projection.Viewport) ([]string, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	names := make([]string, 0, len(pages))
	for i, vp := range pages {
		name := filepath.Join(dir, fmt.Sprintf("%s-%03d.png", prefix, i+1))
		if err := writePNGFile(name, frame(vp)); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

func writePNGFile(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WritePNG(f, img); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("export: encode PNG: %w", err)
	}
	return nil
}

// WritePDF renders each page onto its own PDF page, sized to the frame.
func WritePDF(w io.Writer, title string, frame FrameFunc, pages []projection.Viewport) error {
	if len(pages) == 0 {
		return ErrNoPages
	}

	first := pages[0]
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size: gofpdf.SizeType{
			Wd: float64(first.Width) * PointsPerPixel,
			Ht: float64(first.Height) * PointsPerPixel,
		},
	})
	pdf.SetTitle(title, true)
	pdf.SetCreator("rickboard", true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	var buf bytes.Buffer
	for i, vp := range pages {
		buf.Reset()
		if err := WritePNG(&buf, frame(vp)); err != nil {
			return err
		}

		wd := float64(vp.Width) * PointsPerPixel
		ht := float64(vp.Height) * PointsPerPixel
		// "P" keeps Wd and Ht as given; "L" would swap them.
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: wd, Ht: ht})

		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 0, 0, wd, ht, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("export: pdf page %d: %w", i+1, err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

// WritePDFFile is WritePDF to a file at path.
func WritePDFFile(path, title string, frame FrameFunc, pages []projection.Viewport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WritePDF(f, title, frame, pages); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

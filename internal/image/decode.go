package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// DefaultSVGSide is the raster size used for SVG documents that declare no
// viewBox.
const DefaultSVGSide = 512

// Decoded images are limited to MaxDecodeSide per side and
// MaxDecodePixels in total. Headers are checked before any pixel memory
// is allocated.
const (
	MaxDecodeSide   = 16384
	MaxDecodePixels = 64 << 20
)

// Extensions lists the file extensions accepted for import, lower case.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".svg"}

// IsSupportedPath reports whether path has an importable extension.
func IsSupportedPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// FromImage converts any image into a straight-alpha Buf. Tightly packed
// NRGBA images are wrapped without copying.
func FromImage(src image.Image) (*Buf, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrInvalidDimensions
	}
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == b.Dx()*4 {
		return FromRaw(n.Pix, b.Dx(), b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return FromRaw(dst.Pix, b.Dx(), b.Dy())
}

// Decode decodes PNG, JPEG, GIF, BMP, WebP or SVG data and returns the
// bitmap together with the format name.
func Decode(data []byte) (*Buf, string, error) {
	if isSVG(data) {
		b, err := rasterizeSVG(bytes.NewReader(data))
		return b, "svg", err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, "", fmt.Errorf("image: decode: %w", err)
	}
	if err := CheckSize(cfg.Width, cfg.Height); err != nil {
		return nil, format, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, "", fmt.Errorf("image: decode: %w", err)
	}
	b, err := FromImage(img)
	return b, format, err
}

// DecodeFile reads and decodes the image at path.
func DecodeFile(path string) (*Buf, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("image: read %s: %w", path, err)
	}
	return Decode(data)
}

// CheckSize reports ErrTooLarge for dimensions beyond the decode limits
// and ErrInvalidDimensions for empty ones.
func CheckSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if width > MaxDecodeSide || height > MaxDecodeSide || int64(width)*int64(height) > MaxDecodePixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	return nil
}

// IsEncoded reports whether data starts like one of the supported file
// formats.
func IsEncoded(data []byte) bool {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")),
		bytes.HasPrefix(data, []byte("\xff\xd8\xff")),
		bytes.HasPrefix(data, []byte("GIF87a")),
		bytes.HasPrefix(data, []byte("GIF89a")),
		bytes.HasPrefix(data, []byte("BM")),
		len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return true
	}
	return isSVG(data)
}

func isSVG(data []byte) bool {
	head := data[:min(len(data), 1024)]
	head = bytes.TrimLeft(head, "\xef\xbb\xbf \t\r\n")
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

func rasterizeSVG(r io.Reader) (*Buf, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("image: svg: %w", err)
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw > MaxDecodeSide || vh > MaxDecodeSide {
		return nil, fmt.Errorf("%w: svg viewBox %gx%g", ErrTooLarge, vw, vh)
	}
	w, h := int(vw+0.5), int(vh+0.5)
	if w <= 0 || h <= 0 {
		w, h = DefaultSVGSide, DefaultSVGSide
	}
	if err := CheckSize(w, h); err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return FromImage(rgba)
}

// EncodePNG writes b as a PNG.
func (b *Buf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.NRGBA()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// Fit returns b unchanged when both sides are at most maxSide, otherwise a
// copy scaled down with Catmull-Rom filtering to fit, keeping the aspect
// ratio.
func Fit(b *Buf, maxSide int) *Buf {
	if maxSide <= 0 || (b.width <= maxSide && b.height <= maxSide) {
		return b
	}
	scale := float64(maxSide) / float64(max(b.width, b.height))
	w := max(1, int(float64(b.width)*scale+0.5))
	h := max(1, int(float64(b.height)*scale+0.5))

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), b.NRGBA(), image.Rect(0, 0, b.width, b.height), xdraw.Src, nil)
	out, _ := FromRaw(dst.Pix, w, h)
	return out
}

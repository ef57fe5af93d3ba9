package overlay

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Atorque/rickboard/internal/image"
)

func writePNG(t *testing.T, path string, b *image.Buf) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := b.EncodePNG(f); err != nil {
		t.Fatal(err)
	}
}

// =============================================================================
// Import
// =============================================================================

func TestImportFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "drop.png")
	writePNG(t, src, solid(t, 6, 3, red))

	dir := filepath.Join(root, "posters")
	p, err := ImportFile(src, dir)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if p.Name != "drop.png" || p.Width() != 6 || p.Height() != 3 {
		t.Errorf("poster = %s %dx%d, want drop.png 6x3", p.Name, p.Width(), p.Height())
	}
	if _, err := os.Stat(filepath.Join(dir, "drop.png")); err != nil {
		t.Errorf("copied file missing: %v", err)
	}
	if p.ID == "" || p.Scale != 1 {
		t.Errorf("ID = %q, Scale = %v, want fresh ID and scale 1", p.ID, p.Scale)
	}
}

func TestImportFile_SameDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "x.png")
	writePNG(t, src, solid(t, 2, 2, blue))
	if _, err := ImportFile(src, dir); err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
}

func TestImportFile_Unsupported(t *testing.T) {
	src := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(src, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportFile(src, ""); !errors.Is(err, image.ErrUnsupportedFormat) {
		t.Errorf("ImportFile() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestImportFile_Undecodable(t *testing.T) {
	src := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(src, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportFile(src, ""); !errors.Is(err, ErrOverlayLoad) {
		t.Errorf("ImportFile() error = %v, want ErrOverlayLoad", err)
	}
}

func TestImportFile_Downscales(t *testing.T) {
	src := filepath.Join(t.TempDir(), "wide.png")
	writePNG(t, src, solid(t, 5000, 10, red))

	p, err := ImportFile(src, "")
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if p.Width() != MaxImportSide || p.Height() != 8 {
		t.Errorf("size = %dx%d, want %dx8", p.Width(), p.Height(), MaxImportSide)
	}
}

func TestImportFile_OversizedHeader(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bomb.png")
	if err := os.WriteFile(src, forgedPNG(t, 200000, 200000), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ImportFile(src, t.TempDir())
	if !errors.Is(err, ErrOverlayLoad) || !errors.Is(err, image.ErrTooLarge) {
		t.Errorf("ImportFile() error = %v, want ErrOverlayLoad wrapping ErrTooLarge", err)
	}
}

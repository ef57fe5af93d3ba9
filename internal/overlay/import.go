package overlay

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Atorque/rickboard/internal/image"
)

// MaxImportSide bounds either side of an imported image. Larger images are
// scaled down to fit.
const MaxImportSide = 4096

// ImportFile copies the image at path into dir and decodes it into an
// unplaced poster named after the file.
func ImportFile(path, dir string) (*Poster, error) {
	if !image.IsSupportedPath(path) {
		return nil, fmt.Errorf("overlay: import %s: %w", path, image.ErrUnsupportedFormat)
	}

	dest := path
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("overlay: import: %w", err)
		}
		dest = filepath.Join(dir, filepath.Base(path))
		if err := copyFile(dest, path); err != nil {
			return nil, fmt.Errorf("overlay: import: %w", err)
		}
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		return nil, fmt.Errorf("overlay: import: %w", err)
	}
	img, _, err := image.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOverlayLoad, path, err)
	}

	fitted := image.Fit(img, MaxImportSide)
	p := NewPoster(filepath.Base(path), fitted)
	if fitted == img {
		p.payload = data
	}
	return p, nil
}

func copyFile(dst, src string) error {
	sa, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	da, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if sa == da {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

package overlay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/Atorque/rickboard/internal/image"
	"github.com/Atorque/rickboard/internal/logging"
)

// record is one poster in the manifest.
//
// Older manifests have no id and no scale, store the position as floats
// and the image as a JSON array of raw RGBA bytes. All of those still load.
type record struct {
	ID        string   `json:"id,omitempty"`
	Position  position `json:"position"`
	ImageData payload  `json:"image_data"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Name      string   `json:"name"`
	Scale     *float64 `json:"scale,omitempty"`
}

type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// payload is image bytes. It is written as base64 and read from either a
// base64 string or an array of byte values.
type payload []byte

func (p *payload) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*p = nil
		return nil
	}
	if b[0] == '[' {
		var vals []int
		if err := json.Unmarshal(b, &vals); err != nil {
			return err
		}
		out := make([]byte, len(vals))
		for i, v := range vals {
			if v < 0 || v > 255 {
				return fmt.Errorf("byte %d out of range: %d", i, v)
			}
			out[i] = byte(v)
		}
		*p = out
		return nil
	}
	var raw []byte
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = raw
	return nil
}

// isRaw reports whether the payload length matches Width*Height*4 for
// dimensions within the decode limits.
func (r *record) isRaw() bool {
	if image.CheckSize(r.Width, r.Height) != nil {
		return false
	}
	return len(r.ImageData) == r.Width*r.Height*4
}

// decode turns the record into a poster. The payload is an encoded image
// when it starts with a known file signature and decodes. Otherwise a
// payload of exactly Width*Height*4 bytes is raw RGBA.
func (r *record) decode() (*Poster, error) {
	if len(r.ImageData) == 0 {
		return nil, fmt.Errorf("%w: %q has no image data", ErrOverlayLoad, r.Name)
	}

	var (
		img *image.Buf
		err error
		enc []byte
	)
	if r.isRaw() && !image.IsEncoded(r.ImageData) {
		img, err = image.FromRaw(r.ImageData, r.Width, r.Height)
	} else {
		img, _, err = image.Decode(r.ImageData)
		enc = r.ImageData
		if err != nil && r.isRaw() {
			img, err = image.FromRaw(r.ImageData, r.Width, r.Height)
			enc = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrOverlayLoad, r.Name, err)
	}

	p := NewPoster(r.Name, img)
	if r.ID != "" {
		p.ID = r.ID
	}
	p.X = int(math.Round(r.Position.X))
	p.Y = int(math.Round(r.Position.Y))
	if r.Scale != nil {
		p.Scale = ClampScale(*r.Scale)
	}
	p.payload = enc
	return p, nil
}

// LoadManifest reads the poster list at path.
//
// A missing file yields an empty list and no error. A file that cannot be
// read or is not a JSON array fails with ErrOverlayLoad. Individual
// records that do not decode are skipped and counted in skipped.
func LoadManifest(path string) (posters []*Poster, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("%w: %w", ErrOverlayLoad, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrOverlayLoad, path, err)
	}

	log := logging.Logger()
	for i, msg := range raw {
		var r record
		if err := json.Unmarshal(msg, &r); err != nil {
			log.Warn("overlay: skipping poster record", "index", i, "err", err)
			skipped++
			continue
		}
		p, err := r.decode()
		if err != nil {
			log.Warn("overlay: skipping poster record", "index", i, "name", r.Name, "err", err)
			skipped++
			continue
		}
		posters = append(posters, p)
	}
	return posters, skipped, nil
}

// SaveManifest writes posters to path, replacing the file atomically.
func SaveManifest(path string, posters []*Poster) error {
	recs := make([]record, 0, len(posters))
	for _, p := range posters {
		enc, err := p.Payload()
		if err != nil {
			return fmt.Errorf("overlay: encode %q: %w", p.Name, err)
		}
		scale := p.Scale
		recs = append(recs, record{
			ID:        p.ID,
			Position:  position{X: float64(p.X), Y: float64(p.Y)},
			ImageData: enc,
			Width:     p.Width(),
			Height:    p.Height(),
			Name:      p.Name,
			Scale:     &scale,
		})
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("overlay: marshal manifest: %w", err)
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("overlay: write manifest: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("overlay: write manifest: %w", err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("overlay: write manifest: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("overlay: write manifest: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("overlay: write manifest: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("overlay: write manifest: %w", err)
	}
	return nil
}

// Load replaces the poster list with the manifest at path. It returns the
// number of records skipped.
func (c *Compositor) Load(path string) (int, error) {
	posters, skipped, err := LoadManifest(path)
	if err != nil {
		return 0, err
	}
	c.Replace(posters)
	return skipped, nil
}

// Save writes the poster list to path.
func (c *Compositor) Save(path string) error {
	return SaveManifest(path, c.posters)
}

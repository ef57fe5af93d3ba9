package canvas

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// HeaderSize is the length of the canvas file header in bytes.
const HeaderSize = 9

// writeChunk is the unit of pixel data written between progress reports.
const writeChunk = 4 << 20

// Errors reported by Load and Save.
var (
	// ErrStorageIO wraps failures to read or write the canvas file.
	ErrStorageIO = errors.New("canvas: storage i/o")

	// ErrCorruptHeader is returned when a file exists but its header is
	// malformed or disagrees with the file size.
	ErrCorruptHeader = errors.New("canvas: corrupt header")
)

// Header is the fixed prefix of a canvas file:
//
//	byte 0     mode tag (0 Blackboard, 1 Whiteboard)
//	bytes 1-4  width, little-endian uint32
//	bytes 5-8  height, little-endian uint32
//
// followed by Width*Height*4 bytes of row-major RGBA.
type Header struct {
	Mode   Mode
	Width  int
	Height int
}

// PixelBytes returns the size of the pixel payload that follows the header.
func (h Header) PixelBytes() int64 {
	return int64(h.Width) * int64(h.Height) * 4
}

// FileSize returns the total size of a file carrying this header.
func (h Header) FileSize() int64 {
	return HeaderSize + h.PixelBytes()
}

// AppendBinary appends the encoded header to b.
func (h Header) AppendBinary(b []byte) []byte {
	b = append(b, byte(h.Mode))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Width))
	return binary.LittleEndian.AppendUint32(b, uint32(h.Height))
}

// ParseHeader decodes and validates a header.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrCorruptHeader, len(b))
	}
	h := Header{
		Mode:   Mode(b[0]),
		Width:  int(binary.LittleEndian.Uint32(b[1:5])),
		Height: int(binary.LittleEndian.Uint32(b[5:9])),
	}
	if !h.Mode.IsValid() {
		return Header{}, fmt.Errorf("%w: mode tag %d", ErrCorruptHeader, b[0])
	}
	if err := checkDimensions(h.Width, h.Height); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrCorruptHeader, err)
	}
	return h, nil
}

// Origin tells where a loaded Store came from.
type Origin uint8

const (
	// FromFile means the canvas was read from disk.
	FromFile Origin = iota

	// CreatedDefault means a fresh canvas was synthesized, either because
	// no file existed or because the file could not be trusted.
	CreatedDefault
)

// String returns a short description of the origin.
func (o Origin) String() string {
	if o == FromFile {
		return "file"
	}
	return "default"
}

// Load reads the canvas file at path.
//
// A missing file yields a fresh width x height canvas in the given mode
// with a nil error. An unreadable file (ErrStorageIO) or an untrustworthy
// one (ErrCorruptHeader) also yields the default canvas, together with an
// error describing why the file was not used. The returned Store is nil
// only when the default dimensions themselves are invalid.
func Load(path string, width, height int, mode Mode) (*Store, Origin, error) {
	s, err := load(path)
	if err == nil {
		return s, FromFile, nil
	}

	def, derr := New(width, height, mode)
	if derr != nil {
		return nil, CreatedDefault, derr
	}
	if errors.Is(err, fs.ErrNotExist) {
		return def, CreatedDefault, nil
	}
	return def, CreatedDefault, err
}

func load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageIO, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageIO, err)
	}

	var hb [HeaderSize]byte
	if _, err := io.ReadFull(f, hb[:]); err != nil {
		return nil, fmt.Errorf("%w: short header: %w", ErrCorruptHeader, err)
	}
	h, err := ParseHeader(hb[:])
	if err != nil {
		return nil, err
	}
	if info.Size() != h.FileSize() {
		return nil, fmt.Errorf("%w: file is %d bytes, header implies %d", ErrCorruptHeader, info.Size(), h.FileSize())
	}

	s := &Store{
		width:  h.Width,
		height: h.Height,
		mode:   h.Mode,
		pix:    make([]byte, h.PixelBytes()),
		damage: NewDamage(h.Width, h.Height),
	}
	if _, err := io.ReadFull(bufio.NewReaderSize(f, writeChunk), s.pix); err != nil {
		return nil, fmt.Errorf("%w: reading pixels: %w", ErrStorageIO, err)
	}
	s.damage.MarkAll()
	return s, nil
}

// Save writes the store to path. See WriteFile.
func (s *Store) Save(path string) error {
	return WriteFile(path, s.Header(), s.pix, nil)
}

// WriteFile writes a canvas file atomically: the data goes to a temporary
// file in the same directory, is synced, and then renamed over path. A
// crash at any point leaves either the old or the new file, never a mix.
//
// progress, when non-nil, is called with the fraction of bytes written.
func WriteFile(path string, h Header, pix []byte, progress func(float64)) (err error) {
	if int64(len(pix)) != h.PixelBytes() {
		return fmt.Errorf("canvas: buffer has %d bytes, header implies %d", len(pix), h.PixelBytes())
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageIO, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := preallocate(tmp, h.FileSize()); err != nil {
		return fmt.Errorf("%w: preallocate: %w", ErrStorageIO, err)
	}
	if _, err := tmp.Write(h.AppendBinary(make([]byte, 0, HeaderSize))); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageIO, err)
	}
	for off := 0; off < len(pix); off += writeChunk {
		end := min(off+writeChunk, len(pix))
		if _, err := tmp.Write(pix[off:end]); err != nil {
			return fmt.Errorf("%w: %w", ErrStorageIO, err)
		}
		if progress != nil {
			progress(float64(end) / float64(len(pix)))
		}
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageIO, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageIO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageIO, err)
	}
	if err := syncDir(dir); err != nil {
		return fmt.Errorf("%w: sync dir: %w", ErrStorageIO, err)
	}
	return nil
}

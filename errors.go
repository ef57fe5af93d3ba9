package rickboard

import (
	"github.com/Atorque/rickboard/internal/canvas"
	"github.com/Atorque/rickboard/internal/image"
	"github.com/Atorque/rickboard/internal/overlay"
	"github.com/Atorque/rickboard/internal/undo"
)

// Errors callers can test for with errors.Is.
var (
	// ErrStorageIO reports a canvas file that could not be read or written.
	ErrStorageIO = canvas.ErrStorageIO

	// ErrCorruptHeader reports a canvas file with a malformed header or a
	// size that disagrees with it.
	ErrCorruptHeader = canvas.ErrCorruptHeader

	// ErrDimensions reports an invalid canvas size.
	ErrDimensions = canvas.ErrDimensions

	// ErrEmptyStack is returned by Undo when there is no history.
	ErrEmptyStack = undo.ErrEmptyStack

	// ErrOverlayLoad reports a poster image or record that could not be read.
	ErrOverlayLoad = overlay.ErrOverlayLoad

	// ErrUnknownPoster is returned for poster operations on a missing ID.
	ErrUnknownPoster = overlay.ErrUnknownPoster

	// ErrUnsupportedFormat is returned when importing a file that is not a
	// supported image type.
	ErrUnsupportedFormat = image.ErrUnsupportedFormat
)

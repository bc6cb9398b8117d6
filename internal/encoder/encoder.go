package encoder

import (
	"io"

	"github.com/AnyUserName/hippo-cli/internal/raster"
)

// Encoder encodes an RGBA buffer to a specific format.
type Encoder interface {
	// Format returns the bitstream format name (e.g. "jpeg").
	Format() string

	// Extension returns the output file extension without dot.
	Extension() string

	// Encode writes img to w at the given quality (1-100).
	// Failures are *failure.Error values of the encode stage.
	Encode(w io.Writer, img *raster.RGBA, quality raster.Quality) error
}

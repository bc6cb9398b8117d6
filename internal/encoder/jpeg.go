package encoder

import (
	"io"

	"github.com/AnyUserName/hippo-cli/internal/failure"
	"github.com/AnyUserName/hippo-cli/internal/raster"
)

// JPEG encodes baseline JPEG using Go's standard library. The output is a
// plain JPEG bitstream; only the file extension marks it as .hippo.
type JPEG struct{}

func (JPEG) Format() string    { return "jpeg" }
func (JPEG) Extension() string { return "hippo" }

// Encode drops alpha and streams the RGB rows through a ScanlineWriter.
// Out-of-range quality is clamped into [1,100].
func (JPEG) Encode(w io.Writer, img *raster.RGBA, quality raster.Quality) error {
	if err := img.Check(); err != nil {
		return failure.Wrap(failure.Encode, failure.EncodingFailed, "", err)
	}
	rgb := img.RGB()

	sw, err := NewScanlineWriter(w, rgb.Dimensions, quality)
	if err != nil {
		return err
	}
	for y := 0; y < rgb.Height; y++ {
		if err := sw.WriteScanline(rgb.Row(y)); err != nil {
			return err
		}
	}
	return sw.Finish()
}

// EncodeFile writes img to path; see WriteFile.
func (e JPEG) EncodeFile(path string, img *raster.RGBA, quality raster.Quality) error {
	return WriteFile(e, path, img, quality)
}

// Package decoder reads 8-bit RGBA PNG images into raster.RGBA buffers.
//
// Anything other than 8-bit, non-interlaced RGBA is rejected from the IHDR
// chunk alone, before a pixel buffer is allocated.
package decoder

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"

	"github.com/AnyUserName/hippo-cli/internal/failure"
	"github.com/AnyUserName/hippo-cli/internal/raster"
)

// PNG is the decoder used by the pipeline.
type PNG struct{}

// DecodeFile implements pipeline.Decoder.
func (PNG) DecodeFile(path string) (*raster.RGBA, error) { return DecodeFile(path) }

// DecodeFile opens path and decodes it.
func DecodeFile(path string) (*raster.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, failure.Wrap(failure.Decode, failure.IO, path, err)
	}
	defer f.Close()

	return decode(bufio.NewReader(f), path)
}

// Decode decodes a PNG stream.
func Decode(r io.Reader) (*raster.RGBA, error) {
	return decode(r, "")
}

func decode(r io.Reader, path string) (*raster.RGBA, error) {
	var head [headerLen]byte
	if err := readHead(r, head[:], path); err != nil {
		return nil, err
	}
	hdr, err := parseHeader(head[:], path)
	if err != nil {
		return nil, err
	}
	if err := hdr.check(path); err != nil {
		return nil, err
	}

	img, err := png.Decode(io.MultiReader(bytes.NewReader(head[:]), r))
	if err != nil {
		return nil, classify(err, path)
	}
	src, ok := img.(*image.NRGBA)
	if !ok {
		return nil, failure.Decodef(failure.UnsupportedFormat, path, "stream decoded to %T", img)
	}
	b := src.Bounds()
	if b.Dx() != hdr.Width || b.Dy() != hdr.Height {
		return nil, failure.Decodef(failure.MalformedInput, path,
			"decoded %dx%d, header says %dx%d", b.Dx(), b.Dy(), hdr.Width, hdr.Height)
	}

	out := raster.NewRGBA(hdr.Dimensions())
	rowLen := hdr.Width * 4
	for y := 0; y < hdr.Height; y++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Row(y), src.Pix[off:off+rowLen])
	}
	return out, nil
}

// classify maps an image/png error onto a failure kind.
func classify(err error, path string) error {
	var unsupported png.UnsupportedError
	if errors.As(err, &unsupported) {
		return failure.Wrap(failure.Decode, failure.UnsupportedFormat, path, err)
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return failure.Wrap(failure.Decode, failure.IO, path, err)
	}
	return failure.Wrap(failure.Decode, failure.MalformedInput, path, err)
}

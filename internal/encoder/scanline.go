package encoder

import (
	"image"
	"image/jpeg"
	"io"

	"github.com/AnyUserName/hippo-cli/internal/failure"
	"github.com/AnyUserName/hippo-cli/internal/raster"
)

// maxDimension is the largest side a baseline JPEG frame header can carry.
const maxDimension = 65535

// ScanlineWriter takes RGB rows top to bottom and emits one baseline JPEG
// when Finish is called. image/jpeg encodes whole images, so rows are staged
// into an opaque *image.RGBA, which is the encoder's fast path.
type ScanlineWriter struct {
	w       io.Writer
	dims    raster.Dimensions
	quality raster.Quality
	img     *image.RGBA
	next    int
	done    bool
}

// NewScanlineWriter prepares a writer for a d-sized image at quality q.
// q is clamped into [1,100].
func NewScanlineWriter(w io.Writer, d raster.Dimensions, q raster.Quality) (*ScanlineWriter, error) {
	if !d.Valid() {
		return nil, failure.Encodef(failure.EncodingFailed, "", "invalid dimensions %s", d)
	}
	if d.Width > maxDimension || d.Height > maxDimension {
		return nil, failure.Encodef(failure.EncodingFailed, "", "%s exceeds the jpeg limit of %d", d, maxDimension)
	}
	return &ScanlineWriter{
		w:       w,
		dims:    d,
		quality: q.Clamp(),
		img:     image.NewRGBA(image.Rect(0, 0, d.Width, d.Height)),
	}, nil
}

// NextScanline returns the index of the row the next WriteScanline fills.
func (s *ScanlineWriter) NextScanline() int { return s.next }

// WriteScanline appends one row of exactly Width*3 bytes.
func (s *ScanlineWriter) WriteScanline(row []byte) error {
	switch {
	case s.done:
		return failure.Encodef(failure.EncodingFailed, "", "scanline written after finish")
	case s.next >= s.dims.Height:
		return failure.Encodef(failure.EncodingFailed, "", "scanline %d beyond image height %d", s.next, s.dims.Height)
	case len(row) != s.dims.Width*3:
		return failure.Encodef(failure.EncodingFailed, "", "scanline %d is %d bytes, want %d", s.next, len(row), s.dims.Width*3)
	}

	dst := s.img.Pix[s.next*s.img.Stride:]
	for x := 0; x < s.dims.Width; x++ {
		dst[x*4+0] = row[x*3+0]
		dst[x*4+1] = row[x*3+1]
		dst[x*4+2] = row[x*3+2]
		dst[x*4+3] = 0xff
	}
	s.next++
	return nil
}

// Finish encodes the staged rows. Every row must have been written.
func (s *ScanlineWriter) Finish() error {
	if s.done {
		return failure.Encodef(failure.EncodingFailed, "", "finish called twice")
	}
	if s.next != s.dims.Height {
		return failure.Encodef(failure.EncodingFailed, "", "got %d of %d scanlines", s.next, s.dims.Height)
	}
	s.done = true
	img := s.img
	s.img = nil

	if err := jpeg.Encode(s.w, img, &jpeg.Options{Quality: int(s.quality)}); err != nil {
		return failure.Wrap(failure.Encode, failure.EncodingFailed, "", err)
	}
	return nil
}

package decoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"

	"github.com/AnyUserName/hippo-cli/internal/failure"
	"github.com/AnyUserName/hippo-cli/internal/raster"
)

// Signature is the 8-byte PNG file signature.
const Signature = "\x89PNG\r\n\x1a\n"

// headerLen covers the signature plus the complete IHDR chunk:
// length(4) type(4) data(13) crc(4).
const headerLen = len(Signature) + 4 + 4 + 13 + 4

// ColorType is the PNG IHDR color type.
type ColorType uint8

const (
	Grayscale      ColorType = 0
	TrueColor      ColorType = 2
	Indexed        ColorType = 3
	GrayscaleAlpha ColorType = 4
	TrueColorAlpha ColorType = 6
)

func (c ColorType) String() string {
	switch c {
	case Grayscale:
		return "grayscale"
	case TrueColor:
		return "rgb"
	case Indexed:
		return "indexed"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case TrueColorAlpha:
		return "rgba"
	}
	return fmt.Sprintf("color-type(%d)", uint8(c))
}

// allowed bit depths per color type, from the PNG specification.
var allowedDepths = map[ColorType][]int{
	Grayscale:      {1, 2, 4, 8, 16},
	TrueColor:      {8, 16},
	Indexed:        {1, 2, 4, 8},
	GrayscaleAlpha: {8, 16},
	TrueColorAlpha: {8, 16},
}

// Header is the decoded IHDR chunk.
type Header struct {
	Width      int
	Height     int
	BitDepth   int
	ColorType  ColorType
	Interlaced bool
}

// Dimensions returns the image size.
func (h Header) Dimensions() raster.Dimensions {
	return raster.Dimensions{Width: h.Width, Height: h.Height}
}

// Convertible reports whether the image can be converted: 8-bit RGBA,
// non-interlaced, non-empty.
func (h Header) Convertible() bool {
	return h.check("") == nil
}

// check applies the conversion rules to a structurally valid header.
func (h Header) check(path string) error {
	if h.Width == 0 || h.Height == 0 {
		return failure.Decodef(failure.InvalidDimensions, path, "header reports %dx%d", h.Width, h.Height)
	}
	if h.ColorType != TrueColorAlpha || h.BitDepth != 8 {
		return failure.Decodef(failure.UnsupportedFormat, path,
			"%d-bit %s, only 8-bit rgba is accepted", h.BitDepth, h.ColorType)
	}
	if h.Interlaced {
		return failure.Decodef(failure.UnsupportedFormat, path, "interlaced images are not accepted")
	}
	return nil
}

// ReadHeader reads the PNG signature and IHDR chunk from r. It validates
// structure only; use Convertible to learn whether the image is accepted.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [headerLen]byte
	if err := readHead(r, buf[:], ""); err != nil {
		return Header{}, err
	}
	return parseHeader(buf[:], "")
}

func readHead(r io.Reader, buf []byte, path string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return failure.Wrap(failure.Decode, failure.IO, path, err)
		}
		return failure.Decodef(failure.MalformedInput, path, "stream shorter than a png header: %v", err)
	}
	return nil
}

func parseHeader(b []byte, path string) (Header, error) {
	if !bytes.Equal(b[:8], []byte(Signature)) {
		return Header{}, failure.Decodef(failure.MalformedInput, path, "missing png signature")
	}
	chunk := b[8:]
	if n := binary.BigEndian.Uint32(chunk[0:4]); n != 13 {
		return Header{}, failure.Decodef(failure.MalformedInput, path, "IHDR length %d, want 13", n)
	}
	if string(chunk[4:8]) != "IHDR" {
		return Header{}, failure.Decodef(failure.MalformedInput, path, "first chunk is %q, want IHDR", chunk[4:8])
	}
	data := chunk[8:21]
	if got, want := binary.BigEndian.Uint32(chunk[21:25]), crc32.ChecksumIEEE(chunk[4:21]); got != want {
		return Header{}, failure.Decodef(failure.MalformedInput, path, "IHDR checksum %08x, want %08x", got, want)
	}

	w := binary.BigEndian.Uint32(data[0:4])
	h := binary.BigEndian.Uint32(data[4:8])
	if w > 1<<31-1 || h > 1<<31-1 {
		return Header{}, failure.Decodef(failure.MalformedInput, path, "dimension out of range: %dx%d", w, h)
	}
	hdr := Header{
		Width:      int(w),
		Height:     int(h),
		BitDepth:   int(data[8]),
		ColorType:  ColorType(data[9]),
		Interlaced: data[12] == 1,
	}

	depths, ok := allowedDepths[hdr.ColorType]
	if !ok {
		return Header{}, failure.Decodef(failure.MalformedInput, path, "unknown color type %d", data[9])
	}
	valid := false
	for _, d := range depths {
		if d == hdr.BitDepth {
			valid = true
			break
		}
	}
	if !valid {
		return Header{}, failure.Decodef(failure.MalformedInput, path,
			"bit depth %d is not allowed for %s", hdr.BitDepth, hdr.ColorType)
	}
	if data[10] != 0 || data[11] != 0 {
		return Header{}, failure.Decodef(failure.MalformedInput, path,
			"compression method %d, filter method %d", data[10], data[11])
	}
	if data[12] > 1 {
		return Header{}, failure.Decodef(failure.MalformedInput, path, "interlace method %d", data[12])
	}
	return hdr, nil
}

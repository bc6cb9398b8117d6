package decoder

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/hippo-cli/internal/failure"
	"github.com/AnyUserName/hippo-cli/internal/fixture"
)

func TestDecodeOpaqueRed(t *testing.T) {
	data := fixture.RGBABytes(fixture.Solid(2, 2, color.NRGBA{R: 255, A: 255}))

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Width != 2 || img.Height != 2 {
		t.Errorf("dimensions: got %s", img.Dimensions)
	}
	want := bytes.Repeat([]byte{255, 0, 0, 255}, 4)
	if !bytes.Equal(img.Pix, want) {
		t.Errorf("pixels: got %v, want %v", img.Pix, want)
	}
}

func TestDecodePreservesBytes(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {7, 3}, {64, 48}, {33, 65}} {
		src := fixture.Gradient(size[0], size[1])

		img, err := Decode(bytes.NewReader(fixture.RGBABytes(src)))
		if err != nil {
			t.Fatalf("%v: decode: %v", size, err)
		}
		if len(img.Pix) != size[0]*size[1]*4 {
			t.Fatalf("%v: buffer is %d bytes", size, len(img.Pix))
		}
		if !bytes.Equal(img.Pix, src.Pix) {
			t.Errorf("%v: pixel bytes differ from source", size)
		}
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	if err := fixture.WriteRGBA(path, fixture.Gradient(10, 6)); err != nil {
		t.Fatal(err)
	}

	img, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Width != 10 || img.Height != 6 {
		t.Errorf("dimensions: got %s", img.Dimensions)
	}
	if err := img.Check(); err != nil {
		t.Error(err)
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, failure.IO) {
		t.Fatalf("got %v, want io error", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("cause should be os.ErrNotExist")
	}
	if failure.StageOf(err) != failure.Decode {
		t.Errorf("stage: got %q", failure.StageOf(err))
	}
}

func TestDecodeRejectsOtherPNGTypes(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]image.Image{
		"gray.png":    fixture.Gray(8, 8),
		"rgb.png":     fixture.Opaque(8, 8),
		"deep.png":    fixture.Deep(8, 8),
		"indexed.png": fixture.Paletted(8, 8),
	}
	for name, img := range cases {
		path := filepath.Join(dir, name)
		if err := fixture.WritePNG(path, img); err != nil {
			t.Fatal(err)
		}
		got, err := DecodeFile(path)
		if !errors.Is(err, failure.UnsupportedFormat) {
			t.Errorf("%s: got %v, want unsupported format", name, err)
		}
		if got != nil {
			t.Errorf("%s: buffer escaped on failure", name)
		}
	}
}

func TestDecodeRejectsFromHeaderAlone(t *testing.T) {
	// Header-only streams: decoding would fail for lack of IDAT, so the
	// error kind proves rejection happened before any pixel work.
	cases := []struct {
		name string
		data []byte
		kind failure.Kind
	}{
		{"huge gray", fixture.Header(60000, 60000, 8, 0, 0), failure.UnsupportedFormat},
		{"huge rgb", fixture.Header(60000, 60000, 8, 2, 0), failure.UnsupportedFormat},
		{"16-bit rgba", fixture.Header(4, 4, 16, 6, 0), failure.UnsupportedFormat},
		{"interlaced rgba", fixture.Header(4, 4, 8, 6, 1), failure.UnsupportedFormat},
		{"zero width", fixture.Header(0, 10, 8, 6, 0), failure.InvalidDimensions},
		{"zero height", fixture.Header(10, 0, 8, 6, 0), failure.InvalidDimensions},
		{"bad depth for rgba", fixture.Header(4, 4, 4, 6, 0), failure.MalformedInput},
		{"unknown color type", fixture.Header(4, 4, 8, 5, 0), failure.MalformedInput},
		{"bad interlace method", fixture.Header(4, 4, 8, 6, 2), failure.MalformedInput},
	}
	for _, tc := range cases {
		img, err := Decode(bytes.NewReader(tc.data))
		if !errors.Is(err, tc.kind) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.kind)
		}
		if img != nil {
			t.Errorf("%s: buffer escaped on failure", tc.name)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	good := fixture.RGBABytes(fixture.Gradient(16, 16))

	badCRC := append([]byte(nil), good...)
	badCRC[29] ^= 0xff // first byte of the IHDR CRC

	badIDAT := append([]byte(nil), good...)
	for i := 45; i < len(badIDAT)-20; i++ {
		badIDAT[i] ^= 0x5a
	}

	cases := map[string][]byte{
		"empty":        nil,
		"not a png":    []byte("GIF89a this is not a png at all, not even close"),
		"signature":    good[:8],
		"bad crc":      badCRC,
		"truncated":    good[:len(good)/2],
		"corrupt idat": badIDAT,
	}
	for name, data := range cases {
		img, err := Decode(bytes.NewReader(data))
		if !errors.Is(err, failure.MalformedInput) {
			t.Errorf("%s: got %v, want malformed input", name, err)
		}
		if img != nil {
			t.Errorf("%s: buffer escaped on failure", name)
		}
	}
}

func TestReadHeader(t *testing.T) {
	hdr, err := ReadHeader(bytes.NewReader(fixture.RGBABytes(fixture.Gradient(5, 3))))
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	want := Header{Width: 5, Height: 3, BitDepth: 8, ColorType: TrueColorAlpha}
	if hdr != want {
		t.Errorf("got %+v, want %+v", hdr, want)
	}
	if !hdr.Convertible() {
		t.Error("8-bit rgba should be convertible")
	}

	gray, err := ReadHeader(bytes.NewReader(fixture.Header(3, 3, 16, 0, 0)))
	if err != nil {
		t.Fatalf("read gray header: %v", err)
	}
	if gray.Convertible() {
		t.Error("16-bit grayscale reported convertible")
	}
	if gray.ColorType.String() != "grayscale" {
		t.Errorf("color type name: got %q", gray.ColorType)
	}
}

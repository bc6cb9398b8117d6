// Package fixture builds deterministic PNG inputs for tests and the e2e
// fixture generator.
//
// image/png writes fully opaque NRGBA images as color type 2 (RGB), which
// the decoder rejects, so EncodeRGBA writes color type 6 directly.
package fixture

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/klauspost/compress/zlib"
)

const signature = "\x89PNG\r\n\x1a\n"

// Solid returns a w×h image filled with c.
func Solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

// Gradient returns a w×h image with varying color and alpha.
func Gradient(w, h int) *image.NRGBA {
	img := imaging.New(w, h, color.NRGBA{})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x*7 + y*13) % 256),
				A: uint8(128 + (x+y)%128),
			})
		}
	}
	return img
}

// Gray returns a grayscale rendering of Gradient(w, h).
func Gray(w, h int) *image.Gray {
	src := imaging.Grayscale(Gradient(w, h))
	dst := image.NewGray(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// Opaque returns an opaque image, which image/png stores as color type 2.
func Opaque(w, h int) *image.NRGBA {
	img := Gradient(w, h)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

// Deep returns a translucent 16-bit image, stored as 16-bit RGBA.
func Deep(w, h int) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA64(x, y, color.NRGBA64{R: uint16(x * 4099), G: uint16(y * 257), B: 0x8000, A: 0x7fff})
		}
	}
	return img
}

// Paletted returns an indexed-color image.
func Paletted(w, h int) *image.Paletted {
	pal := color.Palette{color.Black, color.White, color.NRGBA{R: 255, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % len(pal))
	}
	return img
}

// EncodeRGBA writes img as a non-interlaced 8-bit RGBA PNG.
func EncodeRGBA(w io.Writer, img *image.NRGBA) error {
	b := img.Bounds()
	var raw bytes.Buffer
	for y := b.Min.Y; y < b.Max.Y; y++ {
		raw.WriteByte(0) // filter type None
		off := img.PixOffset(b.Min.X, y)
		raw.Write(img.Pix[off : off+b.Dx()*4])
	}

	var idat bytes.Buffer
	zw, err := zlib.NewWriterLevel(&idat, zlib.BestCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(raw.Bytes()); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	var out bytes.Buffer
	out.WriteString(signature)
	out.Write(Chunk("IHDR", ihdr(uint32(b.Dx()), uint32(b.Dy()), 8, 6, 0)))
	out.Write(Chunk("IDAT", idat.Bytes()))
	out.Write(Chunk("IEND", nil))
	_, err = w.Write(out.Bytes())
	return err
}

// RGBABytes returns EncodeRGBA output as a byte slice.
func RGBABytes(img *image.NRGBA) []byte {
	var buf bytes.Buffer
	if err := EncodeRGBA(&buf, img); err != nil {
		panic(err) // bytes.Buffer writes do not fail
	}
	return buf.Bytes()
}

// WriteRGBA writes img to path as an 8-bit RGBA PNG.
func WriteRGBA(path string, img *image.NRGBA) error {
	return os.WriteFile(path, RGBABytes(img), 0o644)
}

// WritePNG writes img to path with image/png, which picks the color type.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Header returns a PNG signature and IHDR chunk with no image data.
// It lets tests describe images far too large to materialize.
func Header(width, height uint32, depth, colorType, interlace byte) []byte {
	var out bytes.Buffer
	out.WriteString(signature)
	out.Write(Chunk("IHDR", ihdr(width, height, depth, colorType, interlace)))
	return out.Bytes()
}

// Chunk frames data as a PNG chunk with its CRC.
func Chunk(typ string, data []byte) []byte {
	out := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(out[0:4], uint32(len(data)))
	copy(out[4:8], typ)
	out = append(out, data...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(out[4:]))
}

func ihdr(width, height uint32, depth, colorType, interlace byte) []byte {
	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:4], width)
	binary.BigEndian.PutUint32(data[4:8], height)
	data[8] = depth
	data[9] = colorType
	data[12] = interlace
	return data
}

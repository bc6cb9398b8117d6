// Package raster holds the pixel buffers passed between the decoder and the
// encoder, and the quality level that parameterizes encoding.
package raster

import "fmt"

// Dimensions is an image size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Valid reports whether both sides are positive.
func (d Dimensions) Valid() bool { return d.Width > 0 && d.Height > 0 }

// Pixels returns Width*Height.
func (d Dimensions) Pixels() int { return d.Width * d.Height }

func (d Dimensions) String() string { return fmt.Sprintf("%dx%d", d.Width, d.Height) }

// RGBA is a row-major buffer of [R,G,B,A] pixels with no row padding.
// len(Pix) is always Width*Height*4.
type RGBA struct {
	Dimensions
	Pix []byte
}

// NewRGBA allocates a zeroed buffer for d.
func NewRGBA(d Dimensions) *RGBA {
	return &RGBA{Dimensions: d, Pix: make([]byte, d.Pixels()*4)}
}

// Check returns an error if Pix does not match the dimensions.
func (m *RGBA) Check() error {
	if !m.Valid() {
		return fmt.Errorf("invalid dimensions %s", m.Dimensions)
	}
	if want := m.Pixels() * 4; len(m.Pix) != want {
		return fmt.Errorf("rgba buffer is %d bytes, %s needs %d", len(m.Pix), m.Dimensions, want)
	}
	return nil
}

// Row returns the 4*Width bytes of row y.
func (m *RGBA) Row(y int) []byte {
	stride := m.Width * 4
	return m.Pix[y*stride : (y+1)*stride]
}

// RGB copies the color channels into a new buffer and drops alpha.
// No compositing is done: a transparent pixel keeps its stored color.
// It panics if the buffer does not match its dimensions.
func (m *RGBA) RGB() *RGB {
	if err := m.Check(); err != nil {
		panic("raster: " + err.Error())
	}
	n := m.Pixels()
	out := &RGB{Dimensions: m.Dimensions, Pix: make([]byte, n*3)}
	for i := 0; i < n; i++ {
		s := m.Pix[i*4 : i*4+3 : i*4+3]
		d := out.Pix[i*3 : i*3+3 : i*3+3]
		d[0], d[1], d[2] = s[0], s[1], s[2]
	}
	return out
}

// RGB is a row-major buffer of [R,G,B] pixels with no row padding.
type RGB struct {
	Dimensions
	Pix []byte
}

// Row returns the 3*Width bytes of row y.
func (m *RGB) Row(y int) []byte {
	stride := m.Width * 3
	return m.Pix[y*stride : (y+1)*stride]
}

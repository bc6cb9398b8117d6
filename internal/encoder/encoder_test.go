package encoder

import (
	"bytes"
	"errors"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/hippo-cli/internal/failure"
	"github.com/AnyUserName/hippo-cli/internal/fixture"
	"github.com/AnyUserName/hippo-cli/internal/probe"
	"github.com/AnyUserName/hippo-cli/internal/raster"
)

func gradient(w, h int) *raster.RGBA {
	src := fixture.Gradient(w, h)
	return &raster.RGBA{Dimensions: raster.Dimensions{Width: w, Height: h}, Pix: src.Pix}
}

func encode(t *testing.T, img *raster.RGBA, q raster.Quality) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := (JPEG{}).Encode(&buf, img, q); err != nil {
		t.Fatalf("encode q%d: %v", q, err)
	}
	return buf.Bytes()
}

func TestJPEGRedBaseline(t *testing.T) {
	src := fixture.Solid(2, 2, color.NRGBA{R: 255, A: 255})
	img := &raster.RGBA{Dimensions: raster.Dimensions{Width: 2, Height: 2}, Pix: src.Pix}

	data := encode(t, img, 75)
	if !bytes.HasPrefix(data, []byte{0xff, 0xd8}) || !bytes.HasSuffix(data, []byte{0xff, 0xd9}) {
		t.Fatal("missing SOI or EOI marker")
	}

	info, err := probe.ScanJPEG(data)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !info.Baseline || info.Components != 3 || info.Width != 2 || info.Height != 2 {
		t.Errorf("frame: %+v", info)
	}

	dec, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := dec.At(1, 1).RGBA()
	if r>>8 < 230 || g>>8 > 30 || b>>8 > 30 {
		t.Errorf("pixel: got %d,%d,%d, want close to red", r>>8, g>>8, b>>8)
	}
}

func TestJPEGQualityAffectsSize(t *testing.T) {
	img := gradient(64, 64)
	low := len(encode(t, img, 1))
	mid := len(encode(t, img, 50))
	high := len(encode(t, img, 100))
	if !(low < mid && mid < high) {
		t.Errorf("sizes not increasing: q1=%d q50=%d q100=%d", low, mid, high)
	}
}

func TestJPEGDeterministic(t *testing.T) {
	img := gradient(31, 17)
	if !bytes.Equal(encode(t, img, 75), encode(t, img, 75)) {
		t.Error("same input produced different bytes")
	}
}

func TestJPEGClampsQuality(t *testing.T) {
	img := gradient(16, 16)
	if !bytes.Equal(encode(t, img, 0), encode(t, img, 1)) {
		t.Error("q0 should encode as q1")
	}
	if !bytes.Equal(encode(t, img, 500), encode(t, img, 100)) {
		t.Error("q500 should encode as q100")
	}
}

func TestJPEGIgnoresAlpha(t *testing.T) {
	a := gradient(8, 8)
	b := &raster.RGBA{Dimensions: a.Dimensions, Pix: append([]byte(nil), a.Pix...)}
	for i := 3; i < len(b.Pix); i += 4 {
		b.Pix[i] = 0
	}
	if !bytes.Equal(encode(t, a, 80), encode(t, b, 80)) {
		t.Error("alpha channel changed the output")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestJPEGEncodeErrors(t *testing.T) {
	err := (JPEG{}).Encode(failingWriter{}, gradient(8, 8), 75)
	if !errors.Is(err, failure.EncodingFailed) {
		t.Errorf("failing writer: got %v", err)
	}

	bad := &raster.RGBA{Dimensions: raster.Dimensions{Width: 4, Height: 4}, Pix: make([]byte, 10)}
	err = (JPEG{}).Encode(io.Discard, bad, 75)
	if !errors.Is(err, failure.EncodingFailed) {
		t.Errorf("short buffer: got %v", err)
	}
	if failure.StageOf(err) != failure.Encode {
		t.Errorf("stage: got %q", failure.StageOf(err))
	}
}

func TestScanlineWriterRejects(t *testing.T) {
	d := raster.Dimensions{Width: 3, Height: 2}

	sw, err := NewScanlineWriter(io.Discard, d, 75)
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.WriteScanline(make([]byte, 8)); !errors.Is(err, failure.EncodingFailed) {
		t.Errorf("short row: got %v", err)
	}
	if err := sw.WriteScanline(make([]byte, 9)); err != nil {
		t.Fatal(err)
	}
	if sw.NextScanline() != 1 {
		t.Errorf("next scanline: got %d", sw.NextScanline())
	}
	if err := sw.Finish(); !errors.Is(err, failure.EncodingFailed) {
		t.Errorf("missing rows: got %v", err)
	}
	if err := sw.WriteScanline(make([]byte, 9)); err != nil {
		t.Fatal(err)
	}
	if err := sw.WriteScanline(make([]byte, 9)); !errors.Is(err, failure.EncodingFailed) {
		t.Errorf("extra row: got %v", err)
	}
	if err := sw.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := sw.Finish(); err == nil {
		t.Error("second finish accepted")
	}

	for _, bad := range []raster.Dimensions{{Width: 0, Height: 4}, {Width: 4, Height: 0}, {Width: 70000, Height: 1}} {
		if _, err := NewScanlineWriter(io.Discard, bad, 75); !errors.Is(err, failure.EncodingFailed) {
			t.Errorf("%s: got %v", bad, err)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.hippo")

	if err := (JPEG{}).EncodeFile(path, gradient(20, 10), 75); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte{0xff, 0xd8}) || !bytes.HasSuffix(data, []byte{0xff, 0xd9}) {
		t.Error("output is not a complete jpeg")
	}
	assertOnlyFiles(t, dir, "out.hippo")
}

func TestWriteFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.hippo")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := (JPEG{}).EncodeFile(path, gradient(4, 4), 90); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, _ := os.ReadFile(path)
	if bytes.Equal(data, []byte("stale")) {
		t.Error("existing file was not replaced")
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.hippo")
	err := (JPEG{}).EncodeFile(path, gradient(4, 4), 75)
	if !errors.Is(err, failure.IO) {
		t.Fatalf("got %v, want io error", err)
	}
	if failure.StageOf(err) != failure.Encode {
		t.Errorf("stage: got %q", failure.StageOf(err))
	}
}

// brokenEncoder writes a partial stream and then fails.
type brokenEncoder struct{ JPEG }

func (brokenEncoder) Encode(w io.Writer, _ *raster.RGBA, _ raster.Quality) error {
	w.Write([]byte{0xff, 0xd8, 0xff})
	return errors.New("encoder gave up")
}

func TestWriteFileFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.hippo")

	err := WriteFile(brokenEncoder{}, path, gradient(4, 4), 75)
	if !errors.Is(err, failure.EncodingFailed) {
		t.Fatalf("got %v, want encoding failed", err)
	}
	var fe *failure.Error
	if !errors.As(err, &fe) || fe.Path != path {
		t.Errorf("error path: got %v", err)
	}
	assertOnlyFiles(t, dir)
}

func assertOnlyFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	if len(got) != len(names) {
		t.Fatalf("directory holds %v, want %v", got, names)
	}
	for i := range names {
		if got[i] != names[i] {
			t.Errorf("directory holds %v, want %v", got, names)
		}
	}
}

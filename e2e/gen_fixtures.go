//go:build ignore

// gen_fixtures creates a small input tree for the batch smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/AnyUserName/hippo-cli/internal/fixture"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	must(os.MkdirAll(filepath.Join(dir, "cards"), 0o755))
	must(os.MkdirAll(filepath.Join(dir, ".cache"), 0o755))

	// Banner (RGBA, 400x225)
	must(fixture.WriteRGBA(filepath.Join(dir, "banner.png"), fixture.Gradient(400, 225)))

	// Cards (RGBA, 200x150 each)
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.png", i)
		must(fixture.WriteRGBA(filepath.Join(dir, "cards", name), solidWithBorder(200, 150, uint8(i*60))))
	}

	// Small alpha image; alpha is dropped on conversion
	must(fixture.WriteRGBA(filepath.Join(dir, "logo.png"), alphaGradient(100, 100)))

	// Rejected inputs: grayscale, opaque RGB, 16-bit, and a hidden dir
	must(fixture.WritePNG(filepath.Join(dir, "gray.png"), fixture.Gray(64, 64)))
	must(fixture.WritePNG(filepath.Join(dir, "opaque.png"), fixture.Opaque(64, 64)))
	must(fixture.WritePNG(filepath.Join(dir, "deep.png"), fixture.Deep(64, 64)))
	must(fixture.WriteRGBA(filepath.Join(dir, ".cache", "skipped.png"), fixture.Gradient(8, 8)))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 9 fixtures in %s (5 convertible)\n", dir)
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := fixture.Solid(w, h, color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255})
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				img.SetNRGBA(x, y, white)
			}
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Package probe identifies image files for the inspect command: format,
// dimensions, PNG header details or JPEG frame details, size and digest.
package probe

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/AnyUserName/hippo-cli/internal/decoder"
	"github.com/AnyUserName/hippo-cli/internal/hasher"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes one file.
type Info struct {
	Path   string
	Format string // "png", "jpeg", "webp", ... or "" when unrecognized
	Width  int
	Height int
	Size   int64
	Digest string

	PNG  *decoder.Header // set for PNG input
	JPEG *JPEGInfo       // set for JPEG and .hippo files
}

// File reads path and describes it. For unrecognized or damaged images it
// returns the partial Info together with the error.
func File(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Bytes(path, data)
}

// Bytes describes data as if read from path.
func Bytes(path string, data []byte) (*Info, error) {
	info := &Info{
		Path:   path,
		Size:   int64(len(data)),
		Digest: hasher.Sum(data),
	}

	// PNG headers are read directly so zero-sized or unsupported images
	// still report their IHDR fields.
	if bytes.HasPrefix(data, []byte(decoder.Signature)) {
		hdr, err := decoder.ReadHeader(bytes.NewReader(data))
		if err != nil {
			return info, fmt.Errorf("png header: %w", err)
		}
		info.Format = "png"
		info.Width, info.Height = hdr.Width, hdr.Height
		info.PNG = &hdr
		return info, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return info, fmt.Errorf("unrecognized image: %w", err)
	}
	info.Format = format
	info.Width, info.Height = cfg.Width, cfg.Height

	if format == "jpeg" {
		ji, err := ScanJPEG(data)
		if err != nil {
			return info, fmt.Errorf("jpeg markers: %w", err)
		}
		info.JPEG = ji
	}
	return info, nil
}

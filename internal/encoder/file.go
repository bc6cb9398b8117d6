package encoder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/AnyUserName/hippo-cli/internal/failure"
	"github.com/AnyUserName/hippo-cli/internal/raster"
)

// WriteFile encodes img into a temp file next to path and renames it into
// place once the bitstream is complete. On failure the temp file is removed
// and path is left untouched.
func WriteFile(enc Encoder, path string, img *raster.RGBA, quality raster.Quality) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return failure.Wrap(failure.Encode, failure.IO, path, err)
	}
	tmpPath := tmp.Name()
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			tmp.Close()
		}
		os.Remove(tmpPath)
	}()

	if err = enc.Encode(tmp, img, quality); err != nil {
		return withPath(err, path)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return failure.Wrap(failure.Encode, failure.IO, path, err)
	}
	if err = tmp.Sync(); err != nil {
		return failure.Wrap(failure.Encode, failure.IO, path, err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return failure.Wrap(failure.Encode, failure.IO, path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return failure.Wrap(failure.Encode, failure.IO, path, err)
	}
	return nil
}

// withPath fills in the destination path on an encode failure.
func withPath(err error, path string) error {
	var fe *failure.Error
	if errors.As(err, &fe) {
		if fe.Path != "" {
			return err
		}
		cp := *fe
		cp.Path = path
		return &cp
	}
	return failure.Wrap(failure.Encode, failure.EncodingFailed, path, err)
}

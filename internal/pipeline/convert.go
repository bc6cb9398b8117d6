// Package pipeline composes the PNG decoder and the JPEG encoder into
// single conversions, background tasks and directory batches.
package pipeline

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/AnyUserName/hippo-cli/internal/decoder"
	"github.com/AnyUserName/hippo-cli/internal/encoder"
	"github.com/AnyUserName/hippo-cli/internal/failure"
	"github.com/AnyUserName/hippo-cli/internal/hasher"
	"github.com/AnyUserName/hippo-cli/internal/metrics"
	"github.com/AnyUserName/hippo-cli/internal/raster"
)

// Extension is the output file extension, without dot.
const Extension = "hippo"

// Decoder reads an image file into an RGBA buffer.
type Decoder interface {
	DecodeFile(path string) (*raster.RGBA, error)
}

// Encoder writes an RGBA buffer to path.
type Encoder interface {
	EncodeFile(path string, img *raster.RGBA, quality raster.Quality) error
}

// Job is one conversion request.
type Job struct {
	Input   string
	Output  string
	Quality raster.Quality
}

// Result describes a finished conversion.
type Result struct {
	Job
	Dimensions raster.Dimensions
	OutputSize int64
	Digest     string // xxhash64 of the output file, 16 hex chars
	Duration   time.Duration
}

// Converter runs jobs. The zero value is not usable; see NewConverter.
type Converter struct {
	Decoder Decoder
	Encoder Encoder
	Logger  log.Logger         // nil discards
	Metrics *metrics.Collector // nil records nothing
}

// NewConverter returns a Converter using the PNG decoder and JPEG encoder.
func NewConverter() *Converter {
	return &Converter{
		Decoder: decoder.PNG{},
		Encoder: encoder.JPEG{},
	}
}

// Convert decodes input and encodes it to output at quality q.
func Convert(input, output string, q raster.Quality) (*Result, error) {
	return NewConverter().Convert(Job{Input: input, Output: output, Quality: q})
}

// Convert runs one job synchronously. The encoder is never invoked when
// decoding fails. Errors are always *failure.Error.
func (c *Converter) Convert(job Job) (*Result, error) {
	start := time.Now()
	res, err := c.convert(job)
	elapsed := time.Since(start)
	logger := log.With(c.logger(), "input", job.Input, "output", job.Output)

	if err != nil {
		c.Metrics.Observe(failure.KindOf(err).String(), elapsed, 0)
		level.Warn(logger).Log("msg", "conversion failed", "kind", failure.KindOf(err), "err", err)
		return nil, err
	}
	res.Duration = elapsed
	c.Metrics.Observe(metrics.ResultOK, elapsed, res.OutputSize)
	level.Debug(logger).Log("msg", "converted", "size", res.Dimensions, "quality", int(job.Quality),
		"bytes", res.OutputSize, "hash", res.Digest, "duration", elapsed)
	return res, nil
}

func (c *Converter) convert(job Job) (*Result, error) {
	img, err := c.Decoder.DecodeFile(job.Input)
	if err != nil {
		return nil, typed(err, failure.Decode, failure.MalformedInput, job.Input)
	}
	dims := img.Dimensions

	if err := c.Encoder.EncodeFile(job.Output, img, job.Quality); err != nil {
		return nil, typed(err, failure.Encode, failure.EncodingFailed, job.Output)
	}

	digest, size, err := hasher.SumFile(job.Output)
	if err != nil {
		return nil, failure.Wrap(failure.Encode, failure.IO, job.Output, err)
	}
	return &Result{Job: job, Dimensions: dims, OutputSize: size, Digest: digest}, nil
}

func (c *Converter) logger() log.Logger {
	if c.Logger == nil {
		return log.NewNopLogger()
	}
	return c.Logger
}

// typed returns err unchanged when it is already a *failure.Error and
// wraps it with the given stage and kind otherwise.
func typed(err error, stage failure.Stage, kind failure.Kind, path string) error {
	var fe *failure.Error
	if errors.As(err, &fe) {
		return err
	}
	return failure.Wrap(stage, kind, path, err)
}

// OutputPath returns input with its extension replaced by .hippo.
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + Extension
}

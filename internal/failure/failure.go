// Package failure defines the typed errors returned by the conversion core.
//
// Every error that leaves the decoder, the encoder or the pipeline is a
// *Error carrying a Kind. Kind itself implements error, so callers match
// with errors.Is:
//
//	if errors.Is(err, failure.UnsupportedFormat) { ... }
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure.
type Kind uint8

const (
	// Other is never produced by the core; KindOf returns it for foreign errors.
	Other Kind = iota
	// IO covers open, create, read, write and rename failures.
	IO
	// MalformedInput means the PNG structure is invalid.
	MalformedInput
	// UnsupportedFormat means a valid PNG with the wrong color type, bit depth or interlace.
	UnsupportedFormat
	// InvalidDimensions means the header reported a zero width or height.
	InvalidDimensions
	// EncodingFailed means the JPEG encoder could not produce a bitstream.
	EncodingFailed
)

var kindNames = [...]string{
	Other:             "other",
	IO:                "io",
	MalformedInput:    "malformed_input",
	UnsupportedFormat: "unsupported_format",
	InvalidDimensions: "invalid_dimensions",
	EncodingFailed:    "encoding_failed",
}

// String returns the snake_case name used in logs, reports and metric labels.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error makes a Kind usable as an errors.Is target.
func (k Kind) Error() string {
	switch k {
	case IO:
		return "i/o error"
	case MalformedInput:
		return "malformed input"
	case UnsupportedFormat:
		return "unsupported format"
	case InvalidDimensions:
		return "invalid dimensions"
	case EncodingFailed:
		return "encoding failed"
	}
	return k.String()
}

// Stage is the pipeline step that failed.
type Stage string

const (
	Decode Stage = "decode"
	Encode Stage = "encode"
)

// Error is a failure of one conversion stage.
type Error struct {
	Stage Stage
	Kind  Kind
	Path  string // file being read or written, may be empty
	Err   error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := string(e.Stage)
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Decodef builds a decode-stage error with a formatted cause.
func Decodef(kind Kind, path, format string, args ...any) *Error {
	return &Error{Stage: Decode, Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// Encodef builds an encode-stage error with a formatted cause.
func Encodef(kind Kind, path, format string, args ...any) *Error {
	return &Error{Stage: Encode, Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a stage, kind and path to err.
func Wrap(stage Stage, kind Kind, path string, err error) *Error {
	return &Error{Stage: stage, Kind: kind, Path: path, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// StageOf returns the Stage of the first *Error in err's chain, or "".
func StageOf(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

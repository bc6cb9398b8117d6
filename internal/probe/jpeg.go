package probe

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// JPEGInfo is what a marker walk learns about a JPEG bitstream.
type JPEGInfo struct {
	Width       int
	Height      int
	Components  int
	Precision   int
	Baseline    bool // frame is SOF0
	Progressive bool // frame is SOF2
	HasEOI      bool
}

var errNotJPEG = errors.New("missing SOI marker")

// ScanJPEG walks the marker segments of data without decoding pixels.
func ScanJPEG(data []byte) (*JPEGInfo, error) {
	if len(data) < 4 || data[0] != 0xff || data[1] != 0xd8 {
		return nil, errNotJPEG
	}
	info := &JPEGInfo{}
	sawFrame := false
	pos := 2
	for pos < len(data) {
		if data[pos] != 0xff {
			return nil, fmt.Errorf("expected marker at offset %d, found %#02x", pos, data[pos])
		}
		for pos < len(data) && data[pos] == 0xff {
			pos++
		}
		if pos >= len(data) {
			break
		}
		marker := data[pos]
		pos++

		switch {
		case marker == 0xd9:
			info.HasEOI = true
			if !sawFrame {
				return nil, errors.New("no frame header before EOI")
			}
			return info, nil
		case marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7):
			continue
		}

		if pos+2 > len(data) {
			return nil, fmt.Errorf("truncated segment %#02x", marker)
		}
		n := int(binary.BigEndian.Uint16(data[pos:]))
		if n < 2 || pos+n > len(data) {
			return nil, fmt.Errorf("segment %#02x length %d overruns stream", marker, n)
		}
		seg := data[pos+2 : pos+n]
		pos += n

		if isFrame(marker) {
			if len(seg) < 6 {
				return nil, fmt.Errorf("short frame header (%d bytes)", len(seg))
			}
			sawFrame = true
			info.Precision = int(seg[0])
			info.Height = int(binary.BigEndian.Uint16(seg[1:]))
			info.Width = int(binary.BigEndian.Uint16(seg[3:]))
			info.Components = int(seg[5])
			info.Baseline = marker == 0xc0
			info.Progressive = marker == 0xc2
		}
		if marker == 0xda {
			pos = skipEntropyData(data, pos)
		}
	}
	if !sawFrame {
		return nil, errors.New("no frame header")
	}
	return info, nil
}

// isFrame reports whether marker is one of the SOFn markers.
func isFrame(marker byte) bool {
	return marker >= 0xc0 && marker <= 0xcf && marker != 0xc4 && marker != 0xc8 && marker != 0xcc
}

// skipEntropyData returns the offset of the first marker after scan data.
func skipEntropyData(data []byte, pos int) int {
	for pos+1 < len(data) {
		if data[pos] == 0xff {
			next := data[pos+1]
			if next != 0x00 && !(next >= 0xd0 && next <= 0xd7) {
				return pos
			}
		}
		pos++
	}
	return len(data)
}

package raster

// Quality is the JPEG quality level. It is handed to the quantizer as is.
type Quality int

const (
	MinQuality     Quality = 1
	MaxQuality     Quality = 100
	DefaultQuality Quality = 75
)

// Valid reports whether q is within [MinQuality, MaxQuality].
func (q Quality) Valid() bool { return q >= MinQuality && q <= MaxQuality }

// Clamp pins q into [MinQuality, MaxQuality].
func (q Quality) Clamp() Quality {
	switch {
	case q < MinQuality:
		return MinQuality
	case q > MaxQuality:
		return MaxQuality
	}
	return q
}

package viewport

import "math"

const (
	DefaultMinLogScale = -8.0
	DefaultMaxLogScale = 8.0

	// DefaultZoomIncrement is the log2 step applied by a single key-driven zoom.
	DefaultZoomIncrement = 0.25
)

// ZoomLevel stores the display scale as a base-2 logarithm so that equal
// increments feel like equal zoom steps. LogScale always stays in [Min, Max].
type ZoomLevel struct {
	LogScale float64
	Min      float64
	Max      float64
}

func NewZoomLevel() ZoomLevel {
	return ZoomLevel{Min: DefaultMinLogScale, Max: DefaultMaxLogScale}
}

// Scale returns 2^LogScale.
func (z *ZoomLevel) Scale() float64 {
	return math.Exp2(z.LogScale)
}

// ZoomIn raises the log scale by inc (clamped) and returns the multiplicative
// change newScale/oldScale. A negative inc zooms out.
func (z *ZoomLevel) ZoomIn(inc float64) float64 {
	old := z.Scale()
	z.LogScale = clamp(z.LogScale+inc, z.Min, z.Max)
	return z.Scale() / old
}

func (z *ZoomLevel) ZoomOut(dec float64) float64 {
	return z.ZoomIn(-dec)
}

func (z *ZoomLevel) Reset() {
	z.LogScale = clamp(0, z.Min, z.Max)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

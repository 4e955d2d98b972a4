package animation

import "fmt"

// PixelFormat is the numeric representation of a source's samples.
type PixelFormat int

const (
	// Uint8 samples are display-ready values in [0, 255].
	Uint8 PixelFormat = iota
	// Float32 samples are linear values, nominally [0, 1].
	Float32
)

func (f PixelFormat) String() string {
	switch f {
	case Uint8:
		return "uint8"
	case Float32:
		return "float32"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// Source is one named stack of equally sized frames stored frame-major,
// then row (top to bottom), column, channel.
type Source struct {
	Name     string
	Frames   int
	Height   int
	Width    int
	Channels int
	Format   PixelFormat

	U8  []uint8
	F32 []float32
}

// NewUint8Source wraps data laid out as frames×height×width×channels.
func NewUint8Source(name string, frames, height, width, channels int, data []uint8) (*Source, error) {
	s := &Source{Name: name, Frames: frames, Height: height, Width: width, Channels: channels, Format: Uint8, U8: data}
	if err := s.validate(len(data)); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFloat32Source wraps data laid out as frames×height×width×channels.
func NewFloat32Source(name string, frames, height, width, channels int, data []float32) (*Source, error) {
	s := &Source{Name: name, Frames: frames, Height: height, Width: width, Channels: channels, Format: Float32, F32: data}
	if err := s.validate(len(data)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Source) validate(n int) error {
	if s.Frames <= 0 || s.Height <= 0 || s.Width <= 0 {
		return fmt.Errorf("source %q has empty shape %v", s.Name, s.Shape())
	}
	if s.Channels < 1 || s.Channels > 4 {
		return fmt.Errorf("source %q has %d channels, want 1 to 4", s.Name, s.Channels)
	}
	if want := s.Frames * s.FrameLen(); n != want {
		return fmt.Errorf("source %q holds %d samples, shape %v needs %d", s.Name, n, s.Shape(), want)
	}
	return nil
}

// Shape returns (frames, height, width, channels).
func (s *Source) Shape() [4]int {
	return [4]int{s.Frames, s.Height, s.Width, s.Channels}
}

// FrameLen is the number of samples in one frame.
func (s *Source) FrameLen() int {
	return s.Height * s.Width * s.Channels
}

// DefaultGamma is 1 for display-ready sources and 2.2 for linear float sources.
func (s *Source) DefaultGamma() float64 {
	if s.Format == Uint8 {
		return 1
	}
	return 2.2
}

// Sample returns the value at frame t, row y (from the top), column x, channel c.
// Uint8 samples are returned unscaled.
func (s *Source) Sample(t, y, x, c int) float64 {
	i := ((t*s.Height+y)*s.Width+x)*s.Channels + c
	if s.Format == Uint8 {
		return float64(s.U8[i])
	}
	return float64(s.F32[i])
}

// Crop copies frames [t0, t1), rows [y0, y1) and columns [x0, x1) into a new
// source with the same name, channels and format.
func (s *Source) Crop(t0, t1, x0, x1, y0, y1 int) (*Source, error) {
	if t0 < 0 || t1 > s.Frames || t0 >= t1 ||
		x0 < 0 || x1 > s.Width || x0 >= x1 ||
		y0 < 0 || y1 > s.Height || y0 >= y1 {
		return nil, fmt.Errorf("crop [%d:%d, %d:%d, %d:%d] outside source %q shape %v",
			t0, t1, y0, y1, x0, x1, s.Name, s.Shape())
	}
	out := &Source{
		Name:     s.Name,
		Frames:   t1 - t0,
		Height:   y1 - y0,
		Width:    x1 - x0,
		Channels: s.Channels,
		Format:   s.Format,
	}
	rowLen := out.Width * s.Channels
	n := out.Frames * out.FrameLen()
	if s.Format == Uint8 {
		out.U8 = make([]uint8, 0, n)
	} else {
		out.F32 = make([]float32, 0, n)
	}
	for t := t0; t < t1; t++ {
		for y := y0; y < y1; y++ {
			start := ((t*s.Height+y)*s.Width + x0) * s.Channels
			if s.Format == Uint8 {
				out.U8 = append(out.U8, s.U8[start:start+rowLen]...)
			} else {
				out.F32 = append(out.F32, s.F32[start:start+rowLen]...)
			}
		}
	}
	return out, nil
}

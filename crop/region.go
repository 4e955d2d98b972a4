package crop

import "fmt"

// MaxExportFrames caps the frames written by a single crop export.
const MaxExportFrames = 16

// Region is a spatio-temporal window into a source: frames [T0, T1),
// columns [X0, X1) and rows [Y0, Y1) counted from the top.
type Region struct {
	T0, T1 int
	X0, X1 int
	Y0, Y1 int
}

// NewRegion converts a selection to row-major bounds for frames
// [t0, t0+frames), clamped to a width×height×frameCount source.
func NewRegion(c Corners, t0, frames, width, height, frameCount int) Region {
	n := c.Normalized(true, height)
	t1 := t0 + frames
	if t1 > frameCount {
		t1 = frameCount
	}
	return Region{
		T0: t0,
		T1: t1,
		X0: clampRange(n.C1.X, width),
		X1: clampRange(n.C2.X, width),
		Y0: clampRange(n.C1.Y, height),
		Y1: clampRange(n.C2.Y, height),
	}
}

// Empty reports whether the region holds no pixels.
func (r Region) Empty() bool {
	return r.T1 <= r.T0 || r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Filename is the exported file name for a crop of source, e.g.
// crop_color_3-4_10-30_10-40.npy.
func Filename(source string, r Region, ext string) string {
	return fmt.Sprintf("crop_%s_%d-%d_%d-%d_%d-%d.%s", source, r.T0, r.T1, r.X0, r.X1, r.Y0, r.Y1, ext)
}

// CoordinatesText is the clipboard form of a selection.
func CoordinatesText(source string, r Region) string {
	return fmt.Sprintf("%s t=[%d, %d] x=[%d, %d] y=[%d, %d]", source, r.T0, r.T1, r.X0, r.X1, r.Y0, r.Y1)
}

func clampRange(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

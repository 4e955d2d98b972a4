package loader

import (
	"sort"

	"github.com/richinsley/goframeview/animation"
	"gonum.org/v1/gonum/stat"
)

const (
	exposurePercentile = 0.99
	exposureSamples    = 1 << 16
)

// AutoExposure returns the exposure that maps the 99th percentile of the
// first frame's color samples to 1. Uint8 sources and frames without
// positive samples get 1.
func AutoExposure(s *animation.Source) float64 {
	if s.Format != animation.Float32 {
		return 1
	}
	frame := s.F32[:s.FrameLen()]
	colors := s.Channels
	if colors == 4 {
		colors = 3
	}
	pixels := s.Width * s.Height
	stride := pixels / exposureSamples
	if stride < 1 {
		stride = 1
	}
	xs := make([]float64, 0, pixels/stride*colors)
	for p := 0; p < pixels; p += stride {
		for c := 0; c < colors; c++ {
			if v := float64(frame[p*s.Channels+c]); v > 0 {
				xs = append(xs, v)
			}
		}
	}
	if len(xs) == 0 {
		return 1
	}
	sort.Float64s(xs)
	q := stat.Quantile(exposurePercentile, stat.Empirical, xs, nil)
	if q <= 0 {
		return 1
	}
	return 1 / q
}

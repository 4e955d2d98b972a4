package loader

import (
	"fmt"
	"log"
	"sort"

	"github.com/richinsley/goframeview/animation"
)

// AutoAdjust interprets a C-ordered array as frames. Two dimensions are a
// grayscale image; three are HWC when the last axis has at most four
// entries and THW otherwise; four are THWC, or TCHW when the second axis
// has 1, 3 or 4 entries and both spatial axes are larger than four.
// Exactly one of u8 and f32 must be set.
func AutoAdjust(name string, shape []int, u8 []uint8, f32 []float32) (*animation.Source, error) {
	var dims [4]int
	switch len(shape) {
	case 2:
		dims = [4]int{1, shape[0], shape[1], 1}
	case 3:
		if shape[2] <= 4 {
			dims = [4]int{1, shape[0], shape[1], shape[2]}
		} else {
			dims = [4]int{shape[0], shape[1], shape[2], 1}
		}
	case 4:
		copy(dims[:], shape)
	default:
		return nil, fmt.Errorf("unsupported array shape %v", shape)
	}

	n := len(f32)
	if u8 != nil {
		n = len(u8)
	}
	if want := dims[0] * dims[1] * dims[2] * dims[3]; n != want {
		return nil, fmt.Errorf("array %s: shape %v needs %d values, got %d", name, shape, want, n)
	}

	largest := []int{dims[1], dims[2], dims[3]}
	sort.Ints(largest)
	channelFirst := false
	if largest[1] <= 4 {
		log.Printf("Array %s has very small spatial dimensions %v, assuming channels last", name, largest[1:])
	} else {
		channelFirst = dims[1] == 1 || dims[1] == 3 || dims[1] == 4
	}

	if channelFirst {
		t, c, h, w := dims[0], dims[1], dims[2], dims[3]
		if u8 != nil {
			u8 = toChannelsLast(u8, t, c, h, w)
		} else {
			f32 = toChannelsLast(f32, t, c, h, w)
		}
		dims = [4]int{t, h, w, c}
	}
	if dims[3] > 4 {
		return nil, fmt.Errorf("array %s has %d channels, at most 4 are supported", name, dims[3])
	}
	if u8 != nil {
		return animation.NewUint8Source(name, dims[0], dims[1], dims[2], dims[3], u8)
	}
	return animation.NewFloat32Source(name, dims[0], dims[1], dims[2], dims[3], f32)
}

func toChannelsLast[T any](in []T, frames, channels, height, width int) []T {
	out := make([]T, len(in))
	plane := height * width
	for t := 0; t < frames; t++ {
		base := t * channels * plane
		for c := 0; c < channels; c++ {
			for i := 0; i < plane; i++ {
				out[base+i*channels+c] = in[base+c*plane+i]
			}
		}
	}
	return out
}

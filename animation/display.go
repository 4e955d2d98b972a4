package animation

import (
	"image"
	"math"
)

// DisplayPixels converts frame t of s into 8-bit RGBA. Float samples are
// mapped through 255·(exposure·v)^(1/gamma) and clipped to [0, 255]; uint8
// samples are copied unless exposure or gamma differ from 1, in which case the
// same curve is applied to v/255. Alpha is never gamma corrected.
//
// Channels are expanded as 1 → gray, 2 → (c0, c1, 0), 3 → opaque RGB.
func DisplayPixels(s *Source, t int, exposure, gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	base := t * s.FrameLen()
	c := s.Channels

	if s.Format == Uint8 && exposure == 1 && gamma == 1 {
		frame := s.U8[base : base+s.FrameLen()]
		for i, o := 0, 0; i < len(frame); i, o = i+c, o+4 {
			expand(img.Pix[o:o+4], frame[i:i+c])
		}
		return img
	}

	lut := newCurve(s.Format, exposure, gamma)
	var px [4]uint8
	for p, o := 0, 0; p < s.Width*s.Height; p, o = p+1, o+4 {
		i := base + p*c
		for k := 0; k < c; k++ {
			var v float64
			if s.Format == Uint8 {
				v = float64(s.U8[i+k])
			} else {
				v = float64(s.F32[i+k])
			}
			if k == 3 {
				px[k] = linear(s.Format, v)
			} else {
				px[k] = lut.apply(v)
			}
		}
		expand(img.Pix[o:o+4], px[:c])
	}
	return img
}

func expand(dst, src []uint8) {
	switch len(src) {
	case 1:
		dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], 255
	case 2:
		dst[0], dst[1], dst[2], dst[3] = src[0], src[1], 0, 255
	case 3:
		dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 255
	default:
		copy(dst, src[:4])
	}
}

type curve struct {
	format   PixelFormat
	exposure float64
	invGamma float64
	table    *[256]uint8
}

// newCurve precomputes the full mapping for uint8 input.
func newCurve(format PixelFormat, exposure, gamma float64) curve {
	cv := curve{format: format, exposure: exposure, invGamma: 1 / gamma}
	if format == Uint8 {
		var table [256]uint8
		for i := range table {
			table[i] = cv.eval(float64(i) / 255)
		}
		cv.table = &table
	}
	return cv
}

func (cv curve) apply(v float64) uint8 {
	if cv.table != nil {
		return cv.table[uint8(v)]
	}
	return cv.eval(v)
}

func (cv curve) eval(v float64) uint8 {
	x := cv.exposure * v
	if !(x > 0) {
		return 0
	}
	return clip255(255 * math.Pow(x, cv.invGamma))
}

func linear(format PixelFormat, v float64) uint8 {
	if format == Uint8 {
		return uint8(v)
	}
	if !(v > 0) {
		return 0
	}
	return clip255(255 * v)
}

func clip255(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

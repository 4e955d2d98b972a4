package viewport

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Aff3 is a 2D affine transform in row-major order:
// x' = a[0]*x + a[1]*y + a[2], y' = a[3]*x + a[4]*y + a[5].
type Aff3 f64.Aff3

// Vec2 is a point or offset in window (framebuffer) pixels.
type Vec2 f64.Vec2

func Identity() Aff3 {
	return Aff3{1, 0, 0, 0, 1, 0}
}

func (p Aff3) Mult(q Aff3) Aff3 {
	return Aff3{
		p[0]*q[0] + p[1]*q[3],
		p[0]*q[1] + p[1]*q[4],
		p[0]*q[2] + p[1]*q[5] + p[2],
		p[3]*q[0] + p[4]*q[3],
		p[3]*q[1] + p[4]*q[4],
		p[3]*q[2] + p[4]*q[5] + p[5],
	}
}

func (m Aff3) Translate(tx, ty float64) Aff3 {
	return m.Mult(Aff3{1, 0, tx, 0, 1, ty})
}

func (m Aff3) Scale(sx, sy float64) Aff3 {
	return m.Mult(Aff3{sx, 0, 0, 0, sy, 0})
}

// Apply maps p through m.
func (m Aff3) Apply(p Vec2) Vec2 {
	return Vec2{
		m[0]*p[0] + m[1]*p[1] + m[2],
		m[3]*p[0] + m[4]*p[1] + m[5],
	}
}

// Invert returns the inverse transform. ok is false for a singular matrix.
func (m Aff3) Invert() (inv Aff3, ok bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 || math.IsNaN(det) {
		return Aff3{}, false
	}
	return Aff3{
		m[4] / det,
		-m[1] / det,
		(m[1]*m[5] - m[2]*m[4]) / det,
		-m[3] / det,
		m[0] / det,
		(m[2]*m[3] - m[0]*m[5]) / det,
	}, true
}

// Mat4 expands m into a column-major 4x4 matrix suitable for glUniformMatrix4fv.
func (m Aff3) Mat4() [16]float32 {
	return [16]float32{
		float32(m[0]), float32(m[3]), 0, 0,
		float32(m[1]), float32(m[4]), 0, 0,
		0, 0, 1, 0,
		float32(m[2]), float32(m[5]), 0, 1,
	}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v[0] + o[0], v[1] + o[1]} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v[0] - o[0], v[1] - o[1]} }
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v[0] * s, v[1] * s} }

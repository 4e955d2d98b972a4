package crop

import (
	"math"

	"github.com/richinsley/goframeview/viewport"
)

// Point is an integer pixel position in the active frame, origin at the
// bottom-left corner, y up.
type Point struct {
	X, Y int
}

// Corners are the two ends of a drag. They are stored as dragged and only
// ordered by Normalized.
type Corners struct {
	C1, C2 Point
}

// Area is |dx|·|dy|. Zero means nothing is selected.
func (c Corners) Area() int {
	return abs(c.C1.X-c.C2.X) * abs(c.C1.Y-c.C2.Y)
}

// Normalized returns the corners ordered so that C1 ≤ C2 component-wise.
// With invertY the rows are flipped to the top-down convention of row-major
// pixel buffers (row' = height − row) and reordered.
func (c Corners) Normalized(invertY bool, height int) Corners {
	x1, x2 := minmax(c.C1.X, c.C2.X)
	y1, y2 := minmax(c.C1.Y, c.C2.Y)
	if invertY {
		y1, y2 = height-y2, height-y1
	}
	return Corners{C1: Point{x1, y1}, C2: Point{x2, y2}}
}

// Mapper converts window points to the frame's center-origin space.
type Mapper interface {
	ScreenToLocal(p viewport.Vec2) viewport.Vec2
}

// Extent is the pixel size of the active frame.
type Extent interface {
	Width() int
	Height() int
}

// Selector tracks a rectangular selection made with right-button drags.
type Selector struct {
	view   Mapper
	extent Extent

	corners Corners
	has     bool
}

func NewSelector(view Mapper, extent Extent) *Selector {
	return &Selector{view: view, extent: extent}
}

// ToPixel maps a window point to a frame pixel corner: inverse model
// transform, shift by the half extent, round, clamp to [0, w]×[0, h].
func (s *Selector) ToPixel(p viewport.Vec2) Point {
	w, h := s.extent.Width(), s.extent.Height()
	local := s.view.ScreenToLocal(p)
	x := math.Round(local[0] + float64(w)/2)
	y := math.Round(local[1] + float64(h)/2)
	return Point{
		X: clampInt(x, w),
		Y: clampInt(y, h),
	}
}

// BeginDrag starts a selection at p with zero area.
func (s *Selector) BeginDrag(p viewport.Vec2) {
	c := s.ToPixel(p)
	s.corners = Corners{C1: c, C2: c}
	s.has = true
}

// ContinueDrag moves the second corner to p. Without a pending selection the
// drag starts one at p.
func (s *Selector) ContinueDrag(p viewport.Vec2) {
	if !s.has {
		s.BeginDrag(p)
		return
	}
	s.corners.C2 = s.ToPixel(p)
}

func (s *Selector) Cancel() {
	s.corners = Corners{}
	s.has = false
}

func (s *Selector) HasSelection() bool { return s.has }

// Corners returns the raw corners and whether a selection exists.
func (s *Selector) Corners() (Corners, bool) {
	return s.corners, s.has
}

// Area is zero when there is no selection.
func (s *Selector) Area() int {
	if !s.has {
		return 0
	}
	return s.corners.Area()
}

// Normalized projects the selection for export without modifying it.
func (s *Selector) Normalized(invertY bool) (Corners, bool) {
	if !s.has {
		return Corners{}, false
	}
	return s.corners.Normalized(invertY, s.extent.Height()), true
}

func clampInt(v float64, hi int) int {
	if v < 0 {
		return 0
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

func minmax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

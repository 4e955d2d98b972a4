package viewport

const (
	// DefaultPanStep is the per-actuation keyboard pan distance in pixels.
	DefaultPanStep = 20.0
	// DefaultScrollZoomStep converts one scroll notch into log2 zoom units.
	DefaultScrollZoomStep = 0.5
)

// Viewport places the active frame in the window: content is scaled about its
// own center and then translated so that center lands on Translation.
// All coordinates are window framebuffer pixels with a bottom-left origin.
type Viewport struct {
	Translation Vec2
	Cursor      Vec2
	Zoom        ZoomLevel

	PanStep        float64
	ScrollZoomStep float64
	KeyZoomStep    float64

	width, height int
	center        Vec2
}

// New returns a viewport for a window of the given size with the content
// centered at scale 1.
func New(width, height int) *Viewport {
	center := Vec2{float64(width) / 2, float64(height) / 2}
	return &Viewport{
		Translation:    center,
		Cursor:         center,
		Zoom:           NewZoomLevel(),
		PanStep:        DefaultPanStep,
		ScrollZoomStep: DefaultScrollZoomStep,
		KeyZoomStep:    DefaultZoomIncrement,
		width:          width,
		height:         height,
		center:         center,
	}
}

// Size returns the window size the viewport was last resized to.
func (v *Viewport) Size() (int, int) {
	return v.width, v.height
}

// OnResize shifts the translation by the change of the window center so the
// content keeps its place relative to the middle of the window.
func (v *Viewport) OnResize(width, height int) {
	center := Vec2{float64(width) / 2, float64(height) / 2}
	v.Translation = v.Translation.Add(center.Sub(v.center))
	v.center = center
	v.width, v.height = width, height
}

func (v *Viewport) OnDrag(dx, dy float64) {
	v.Translation = v.Translation.Add(Vec2{dx, dy})
}

func (v *Viewport) OnMotion(p Vec2) {
	v.Cursor = p
}

// Pan moves the content by whole PanStep units, e.g. Pan(0, -1) for one step down.
func (v *Viewport) Pan(dx, dy float64) {
	v.OnDrag(dx*v.PanStep, dy*v.PanStep)
}

// OnScroll zooms by ScrollZoomStep log units per notch about cursor and
// returns the factor actually applied.
func (v *Viewport) OnScroll(cursor Vec2, amount float64) float64 {
	v.Cursor = cursor
	var factor float64
	if amount > 0 {
		factor = v.Zoom.ZoomIn(v.ScrollZoomStep * amount)
	} else {
		factor = v.Zoom.ZoomOut(-v.ScrollZoomStep * amount)
	}
	v.anchor(factor)
	return factor
}

// OnZoomKey applies one fixed KeyZoomStep, in when in is true, anchored at cursor.
func (v *Viewport) OnZoomKey(cursor Vec2, in bool) float64 {
	v.Cursor = cursor
	var factor float64
	if in {
		factor = v.Zoom.ZoomIn(v.KeyZoomStep)
	} else {
		factor = v.Zoom.ZoomOut(v.KeyZoomStep)
	}
	v.anchor(factor)
	return factor
}

// anchor keeps the content point under the cursor fixed across a zoom by factor.
func (v *Viewport) anchor(factor float64) {
	v.Translation = v.Translation.Sub(v.Cursor).Mul(factor).Add(v.Cursor)
}

// Reset restores scale 1 with the content centered in the window.
func (v *Viewport) Reset() {
	v.Zoom.Reset()
	v.Translation = v.center
}

// ModelMatrix is translate(Translation) applied after scale(s, s).
func (v *Viewport) ModelMatrix() Aff3 {
	s := v.Zoom.Scale()
	return Identity().Translate(v.Translation[0], v.Translation[1]).Scale(s, s)
}

// ScreenToLocal maps a window point into the content's center-origin frame.
func (v *Viewport) ScreenToLocal(p Vec2) Vec2 {
	inv, ok := v.ModelMatrix().Invert()
	if !ok {
		return Vec2{}
	}
	return inv.Apply(p)
}

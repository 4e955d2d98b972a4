package session

import (
	"fmt"
	"strings"

	"github.com/richinsley/goframeview/graphics"
	"github.com/richinsley/goframeview/viewport"
)

func (s *Session) ModelTransform() viewport.Aff3 {
	return s.view.ModelMatrix()
}

func (s *Session) ActivePixelSource() graphics.PixelSource {
	return s.anim.ActivePixelSource()
}

// Overlay describes the selection rectangle, slider and status line.
func (s *Session) Overlay() graphics.Overlay {
	var o graphics.Overlay
	if c, ok := s.sel.Normalized(false); ok && c.Area() > 0 {
		o.HasCrop = true
		o.Crop = [4]float64{float64(c.C1.X), float64(c.C1.Y), float64(c.C2.X), float64(c.C2.Y)}
	}
	if sl := s.slider(); sl.Visible() {
		o.Timeline = &graphics.Timeline{
			X:        sl.X,
			Y:        sl.Y,
			Length:   sl.Length,
			Stroke:   sl.Stroke,
			Position: sl.Position(s.anim.FrameIndex()),
		}
	}
	o.Status = s.Status()
	return o
}

// Status is the one-line summary shown in the HUD.
func (s *Session) Status() string {
	a := s.anim
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%d/%d]", a.ActiveSource().Name, a.ActiveIndex()+1, a.SourceCount())
	fmt.Fprintf(&b, "  frame %d/%d", a.FrameIndex(), a.FrameCount())
	if a.Running() {
		fmt.Fprintf(&b, "  playing %.3g fps", a.FPS())
	}
	fmt.Fprintf(&b, "  zoom x%.3g", s.view.Zoom.Scale())
	if a.Exposure() != 1 {
		fmt.Fprintf(&b, "  exposure %.3g", a.Exposure())
	}
	fmt.Fprintf(&b, "  gamma %.2f", a.Gamma())
	if c, ok := s.sel.Normalized(false); ok && c.Area() > 0 {
		fmt.Fprintf(&b, "  selection %dx%d", c.C2.X-c.C1.X, c.C2.Y-c.C1.Y)
	}
	return b.String()
}

// Title is the window title for the active source.
func (s *Session) Title() string {
	return "goframeview - " + s.anim.ActiveSource().Name
}

var _ graphics.Renderable = (*Session)(nil)

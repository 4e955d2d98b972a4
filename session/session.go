package session

import (
	"fmt"
	"image"

	"github.com/richinsley/goframeview/animation"
	"github.com/richinsley/goframeview/crop"
	"github.com/richinsley/goframeview/inputs"
	"github.com/richinsley/goframeview/timeline"
	"github.com/richinsley/goframeview/viewport"
)

const (
	minExposure = 1.0 / 1024
	maxExposure = 1024.0
	gammaStep   = 0.1
	minGamma    = 0.1
)

// Exporter performs the I/O behind the export actions. A failing exporter
// must not be able to change session state, so it only receives copies.
type Exporter interface {
	CopyText(text string) error
	CopyImage(img *image.RGBA) error
	SaveArray(name string, src *animation.Source) error
}

type gesture int

const (
	gestureNone gesture = iota
	gesturePan
	gestureSlider
	gestureSelect
	gestureCancelled
)

// Session is one viewer: a single Animation, Viewport and crop Selector
// driven by input events and the playback scheduler.
type Session struct {
	anim     *animation.Animation
	view     *viewport.Viewport
	sel      *crop.Selector
	sched    *animation.Scheduler
	bindings inputs.Bindings
	exporter Exporter

	// ArrayExt is the extension used for saved crops.
	ArrayExt string

	gesture gesture
	closing bool
}

// New builds a session for a window of width×height. bindings may be nil
// for the defaults with ctrl as the modifier.
func New(anim *animation.Animation, width, height int, bindings inputs.Bindings, exporter Exporter) *Session {
	if bindings == nil {
		bindings = inputs.DefaultBindings(inputs.ModCtrl)
	}
	view := viewport.New(width, height)
	sched := animation.NewScheduler()
	anim.SetScheduler(sched)
	return &Session{
		anim:     anim,
		view:     view,
		sel:      crop.NewSelector(view, anim),
		sched:    sched,
		bindings: bindings,
		exporter: exporter,
		ArrayExt: "npy",
	}
}

func (s *Session) Animation() *animation.Animation { return s.anim }
func (s *Session) Viewport() *viewport.Viewport { return s.view }
func (s *Session) Selector() *crop.Selector { return s.sel }

// ShouldClose reports whether a close was requested.
func (s *Session) ShouldClose() bool { return s.closing }

// Poll advances playback to now (seconds) and reports whether a frame step fired.
func (s *Session) Poll(now float64) bool {
	return s.sched.Poll(now)
}

func (s *Session) slider() timeline.Slider {
	w, _ := s.view.Size()
	return timeline.Layout(w, s.anim.FrameCount())
}

// HandleEvent applies one input event and returns what it changed.
func (s *Session) HandleEvent(ev inputs.Event) []Mutation {
	switch ev.Kind {
	case inputs.KeyPress, inputs.KeyRepeat:
		a := s.bindings.Resolve(ev.Key, ev.Mods)
		if a == inputs.ActionNone {
			return nil
		}
		if ev.Kind == inputs.KeyRepeat && !repeatable(a) {
			return nil
		}
		return []Mutation{s.Do(a)}

	case inputs.MousePress:
		p := viewport.Vec2{ev.X, ev.Y}
		s.view.OnMotion(p)
		switch ev.Button {
		case inputs.ButtonLeft:
			if sl := s.slider(); sl.Hit(ev.X, ev.Y) {
				s.gesture = gestureSlider
				return s.seek(sl.StepAt(ev.X))
			}
			s.gesture = gesturePan
		case inputs.ButtonRight:
			if s.sel.HasSelection() {
				s.sel.Cancel()
				s.gesture = gestureCancelled
				return []Mutation{{Kind: SelectionChanged, Detail: "cleared"}}
			}
			s.sel.BeginDrag(p)
			s.gesture = gestureSelect
			return []Mutation{{Kind: SelectionChanged, Detail: "started"}}
		}
		return nil

	case inputs.MouseDrag:
		p := viewport.Vec2{ev.X, ev.Y}
		s.view.OnMotion(p)
		switch ev.Button {
		case inputs.ButtonLeft:
			if s.gesture == gestureSlider {
				return s.seek(s.slider().StepAt(ev.X))
			}
			s.view.OnDrag(ev.DX, ev.DY)
			return []Mutation{{Kind: ViewChanged, Detail: "pan"}}
		case inputs.ButtonRight:
			if s.gesture == gestureCancelled {
				return nil
			}
			s.sel.ContinueDrag(p)
			return []Mutation{{Kind: SelectionChanged, Detail: s.selectionDetail()}}
		}
		return nil

	case inputs.MouseRelease:
		s.gesture = gestureNone
		return nil

	case inputs.MouseMotion:
		s.view.OnMotion(viewport.Vec2{ev.X, ev.Y})
		return nil

	case inputs.Scroll:
		f := s.view.OnScroll(viewport.Vec2{ev.X, ev.Y}, ev.DY)
		return []Mutation{{Kind: ViewChanged, Detail: fmt.Sprintf("zoom x%.4g", f)}}

	case inputs.Resize:
		if ev.Width <= 0 || ev.Height <= 0 {
			return nil
		}
		s.view.OnResize(ev.Width, ev.Height)
		return []Mutation{{Kind: ViewChanged, Detail: fmt.Sprintf("resize %dx%d", ev.Width, ev.Height)}}

	case inputs.CloseRequest:
		s.closing = true
		return []Mutation{{Kind: CloseRequested}}
	}
	return nil
}

func repeatable(a inputs.Action) bool {
	switch a {
	case inputs.GoNext, inputs.GoPrevious,
		inputs.ZoomIn, inputs.ZoomOut,
		inputs.PanUp, inputs.PanDown, inputs.PanLeft, inputs.PanRight,
		inputs.ExposureUp, inputs.ExposureDown, inputs.GammaUp, inputs.GammaDown:
		return true
	}
	return false
}

func (s *Session) seek(step int) []Mutation {
	v := s.anim.Version()
	s.anim.GoTo(step)
	if !s.anim.HasFrameChangedSince(v) {
		return nil
	}
	return []Mutation{{Kind: FrameChanged, Detail: fmt.Sprintf("frame %d", s.anim.FrameIndex())}}
}

// Do performs a single action as if its key had been pressed.
func (s *Session) Do(a inputs.Action) Mutation {
	switch a {
	case inputs.GoStart, inputs.GoEnd, inputs.GoNext, inputs.GoPrevious:
		return s.navigate(a)

	case inputs.TogglePlayback:
		s.anim.Toggle()
		state := "paused"
		if s.anim.Running() {
			state = "playing"
		}
		return Mutation{Kind: PlaybackChanged, Action: a, Detail: state}

	case inputs.NextSource, inputs.PreviousSource:
		if s.anim.SourceCount() < 2 {
			return Mutation{Kind: NoOp, Action: a, Detail: "single source"}
		}
		if a == inputs.NextSource {
			s.anim.NextSource()
		} else {
			s.anim.PreviousSource()
		}
		return Mutation{Kind: SourceChanged, Action: a, Detail: s.anim.ActiveSource().Name}

	case inputs.ZoomIn, inputs.ZoomOut:
		f := s.view.OnZoomKey(s.view.Cursor, a == inputs.ZoomIn)
		return Mutation{Kind: ViewChanged, Action: a, Detail: fmt.Sprintf("zoom x%.4g", f)}

	case inputs.ResetView:
		s.view.Reset()
		return Mutation{Kind: ViewChanged, Action: a, Detail: "reset"}

	case inputs.PanUp:
		s.view.Pan(0, -1)
		return Mutation{Kind: ViewChanged, Action: a, Detail: "pan"}
	case inputs.PanDown:
		s.view.Pan(0, 1)
		return Mutation{Kind: ViewChanged, Action: a, Detail: "pan"}
	case inputs.PanLeft:
		s.view.Pan(1, 0)
		return Mutation{Kind: ViewChanged, Action: a, Detail: "pan"}
	case inputs.PanRight:
		s.view.Pan(-1, 0)
		return Mutation{Kind: ViewChanged, Action: a, Detail: "pan"}

	case inputs.ExposureUp, inputs.ExposureDown, inputs.GammaUp, inputs.GammaDown, inputs.ResetDisplay:
		return s.adjustDisplay(a)

	case inputs.CopyCoordinates:
		return s.copyCoordinates()
	case inputs.CopyPixels:
		return s.copyPixels()
	case inputs.SaveCrop:
		return s.saveCrop()

	case inputs.Close:
		s.closing = true
		return Mutation{Kind: CloseRequested, Action: a}
	}
	return Mutation{Kind: NoOp, Action: a}
}

func (s *Session) navigate(a inputs.Action) Mutation {
	v := s.anim.Version()
	switch a {
	case inputs.GoStart:
		s.anim.GoStart()
	case inputs.GoEnd:
		s.anim.GoEnd()
	case inputs.GoNext:
		s.anim.GoNext()
	case inputs.GoPrevious:
		s.anim.GoPrevious()
	}
	if !s.anim.HasFrameChangedSince(v) {
		return Mutation{Kind: NoOp, Action: a, Detail: fmt.Sprintf("already at frame %d", s.anim.FrameIndex())}
	}
	return Mutation{Kind: FrameChanged, Action: a, Detail: fmt.Sprintf("frame %d", s.anim.FrameIndex())}
}

func (s *Session) adjustDisplay(a inputs.Action) Mutation {
	v := s.anim.Version()
	switch a {
	case inputs.ExposureUp:
		if e := s.anim.Exposure() * 2; e <= maxExposure {
			s.anim.SetExposure(e)
		}
	case inputs.ExposureDown:
		if e := s.anim.Exposure() / 2; e >= minExposure {
			s.anim.SetExposure(e)
		}
	case inputs.GammaUp:
		s.anim.SetGamma(s.anim.Gamma() + gammaStep)
	case inputs.GammaDown:
		if g := s.anim.Gamma() - gammaStep; g >= minGamma {
			s.anim.SetGamma(g)
		}
	case inputs.ResetDisplay:
		s.anim.ResetDisplay()
	}
	if !s.anim.HasFrameChangedSince(v) {
		return Mutation{Kind: NoOp, Action: a, Detail: "display unchanged"}
	}
	return Mutation{Kind: DisplayChanged, Action: a,
		Detail: fmt.Sprintf("exposure %.4g gamma %.2f", s.anim.Exposure(), s.anim.Gamma())}
}

func (s *Session) selectionDetail() string {
	c, ok := s.sel.Normalized(false)
	if !ok {
		return "none"
	}
	return fmt.Sprintf("%dx%d", c.C2.X-c.C1.X, c.C2.Y-c.C1.Y)
}

package session

import (
	"errors"
	"image"
	"testing"

	"github.com/richinsley/goframeview/animation"
	"github.com/richinsley/goframeview/inputs"
)

type fakeExporter struct {
	err    error
	texts  []string
	images []*image.RGBA
	names  []string
	arrays []*animation.Source
}

func (f *fakeExporter) CopyText(text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeExporter) CopyImage(img *image.RGBA) error {
	if f.err != nil {
		return f.err
	}
	f.images = append(f.images, img)
	return nil
}

func (f *fakeExporter) SaveArray(name string, src *animation.Source) error {
	if f.err != nil {
		return f.err
	}
	f.names = append(f.names, name)
	f.arrays = append(f.arrays, src)
	return nil
}

func source(t *testing.T, name string, channels int) *animation.Source {
	t.Helper()
	const frames, h, w = 4, 48, 64
	data := make([]uint8, frames*h*w*channels)
	for i := range data {
		data[i] = uint8(i % 251)
	}
	s, err := animation.NewUint8Source(name, frames, h, w, channels, data)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// newSession opens a 64×48 window over 64×48 frames, so window pixels and
// frame pixels coincide at the initial view.
func newSession(t *testing.T, exp Exporter, names ...string) *Session {
	t.Helper()
	var sources []*animation.Source
	for i, n := range names {
		sources = append(sources, source(t, n, 3+i%2))
	}
	a, err := animation.New(sources, 10)
	if err != nil {
		t.Fatal(err)
	}
	return New(a, 64, 48, nil, exp)
}

func kinds(ms []Mutation) []MutationKind {
	var out []MutationKind
	for _, m := range ms {
		out = append(out, m.Kind)
	}
	return out
}

func expectKind(t *testing.T, ms []Mutation, want MutationKind) Mutation {
	t.Helper()
	if len(ms) != 1 || ms[0].Kind != want {
		t.Fatalf("expected [%v], got %v", want, kinds(ms))
	}
	return ms[0]
}

func TestKeyNavigation(t *testing.T) {
	s := newSession(t, nil, "color")
	tests := []struct {
		key   inputs.Key
		mods  inputs.Mod
		frame int
		kind  MutationKind
	}{
		{inputs.KeyD, inputs.ModCtrl, 1, FrameChanged},
		{inputs.KeyE, inputs.ModCtrl, 3, FrameChanged},
		{inputs.KeyD, inputs.ModCtrl, 0, FrameChanged},
		{inputs.KeyA, inputs.ModCtrl, 3, FrameChanged},
		{inputs.KeyS, inputs.ModCtrl, 0, FrameChanged},
		{inputs.KeyS, inputs.ModCtrl, 0, NoOp},
	}
	for i, tc := range tests {
		expectKind(t, s.HandleEvent(inputs.Press(tc.key, tc.mods)), tc.kind)
		if got := s.Animation().FrameIndex(); got != tc.frame {
			t.Errorf("step %d: frame %d, want %d", i, got, tc.frame)
		}
	}
	if ms := s.HandleEvent(inputs.Press(inputs.KeyG, 0)); ms != nil {
		t.Errorf("unbound key produced %v", ms)
	}
}

func TestSourceSwitchingNeedsSeveralSources(t *testing.T) {
	s := newSession(t, nil, "color")
	m := expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyX, 0)), NoOp)
	if m.Action != inputs.NextSource {
		t.Errorf("unexpected action %v", m.Action)
	}

	s = newSession(t, nil, "color", "depth")
	s.Animation().GoTo(2)
	m = expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyX, 0)), SourceChanged)
	if m.Detail != "depth" || s.Animation().FrameIndex() != 2 {
		t.Errorf("expected depth at frame 2, got %q frame %d", m.Detail, s.Animation().FrameIndex())
	}
	expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyZ, 0)), SourceChanged)
	if s.Animation().ActiveIndex() != 0 {
		t.Errorf("expected source 0, got %d", s.Animation().ActiveIndex())
	}
}

func TestSelectionSurvivesSourceSwitch(t *testing.T) {
	s := newSession(t, nil, "color", "depth")
	s.HandleEvent(inputs.Click(inputs.ButtonRight, 10, 10))
	s.HandleEvent(inputs.Drag(inputs.ButtonRight, 30, 40, 20, 30))
	s.HandleEvent(inputs.Release(inputs.ButtonRight, 30, 40))
	before, _ := s.Selector().Corners()

	expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyX, 0)), SourceChanged)
	after, ok := s.Selector().Corners()
	if !ok || after != before {
		t.Errorf("selection changed on source switch: %v -> %v", before, after)
	}
}

func TestPlaybackThroughSession(t *testing.T) {
	s := newSession(t, nil, "color")
	m := expectKind(t, s.HandleEvent(inputs.Press(inputs.KeySpace, 0)), PlaybackChanged)
	if m.Detail != "playing" {
		t.Errorf("unexpected detail %q", m.Detail)
	}
	if ms := s.HandleEvent(inputs.Event{Kind: inputs.KeyRepeat, Key: inputs.KeySpace}); ms != nil {
		t.Errorf("toggle must not auto-repeat, got %v", kinds(ms))
	}
	for i := 1; i <= 4; i++ {
		s.Poll(float64(i)*0.1 + 0.01)
	}
	if s.Animation().FrameIndex() != 0 {
		t.Errorf("expected a full cycle back to 0, got %d", s.Animation().FrameIndex())
	}
	s.HandleEvent(inputs.Press(inputs.KeySpace, 0))
	if s.Poll(10) {
		t.Error("no step should fire after pausing")
	}
}

func TestSelectionGestures(t *testing.T) {
	s := newSession(t, nil, "color")
	expectKind(t, s.HandleEvent(inputs.Click(inputs.ButtonRight, 10, 10)), SelectionChanged)
	m := expectKind(t, s.HandleEvent(inputs.Drag(inputs.ButtonRight, 30, 40, 20, 30)), SelectionChanged)
	if m.Detail != "20x30" {
		t.Errorf("unexpected selection detail %q", m.Detail)
	}
	s.HandleEvent(inputs.Release(inputs.ButtonRight, 30, 40))
	if s.Selector().Area() != 600 {
		t.Fatalf("expected area 600, got %d", s.Selector().Area())
	}

	m = expectKind(t, s.HandleEvent(inputs.Click(inputs.ButtonRight, 50, 5)), SelectionChanged)
	if m.Detail != "cleared" || s.Selector().HasSelection() {
		t.Fatal("right press with a selection should cancel it")
	}
	if ms := s.HandleEvent(inputs.Drag(inputs.ButtonRight, 55, 9, 5, 4)); ms != nil {
		t.Errorf("drag after a cancelling press should be ignored, got %v", kinds(ms))
	}
	if s.Selector().HasSelection() {
		t.Error("cancel press must not start a new selection")
	}
	s.HandleEvent(inputs.Release(inputs.ButtonRight, 55, 9))
	expectKind(t, s.HandleEvent(inputs.Click(inputs.ButtonRight, 1, 1)), SelectionChanged)
	if !s.Selector().HasSelection() {
		t.Error("next press should begin a new selection")
	}
}

func TestExportsRequireSelection(t *testing.T) {
	exp := &fakeExporter{}
	s := newSession(t, exp, "color")
	for _, key := range []inputs.Key{inputs.KeyX, inputs.KeyC, inputs.KeyN} {
		m := expectKind(t, s.HandleEvent(inputs.Press(key, inputs.ModCtrl)), NoOp)
		if m.Detail != nothingSelected {
			t.Errorf("%v: unexpected detail %q", key, m.Detail)
		}
	}

	// zero area: coordinates can be copied, pixels cannot
	s.HandleEvent(inputs.Click(inputs.ButtonRight, 10, 10))
	expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyX, inputs.ModCtrl)), Exported)
	expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyC, inputs.ModCtrl)), NoOp)
	expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyN, inputs.ModCtrl)), NoOp)
	if len(exp.images) != 0 || len(exp.names) != 0 {
		t.Error("zero-area selection reached the exporter")
	}
}

func TestExports(t *testing.T) {
	exp := &fakeExporter{}
	s := newSession(t, exp, "color")
	s.Animation().GoTo(1)
	s.HandleEvent(inputs.Click(inputs.ButtonRight, 10, 10))
	s.HandleEvent(inputs.Drag(inputs.ButtonRight, 30, 40, 20, 30))

	m := expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyX, inputs.ModCtrl)), Exported)
	if want := "color t=[1, 2] x=[10, 30] y=[8, 38]"; m.Detail != want || exp.texts[0] != want {
		t.Errorf("got %q, want %q", m.Detail, want)
	}

	expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyC, inputs.ModCtrl)), Exported)
	img := exp.images[0]
	if img.Rect.Dx() != 20 || img.Rect.Dy() != 30 {
		t.Fatalf("unexpected image size %v", img.Rect)
	}
	full := s.Animation().FrameAsDisplayPixels(1)
	if got, want := img.Pix[0:4], full.Pix[full.PixOffset(10, 8):full.PixOffset(10, 8)+4]; string(got) != string(want) {
		t.Errorf("top-left pixel %v, want %v", got, want)
	}

	m = expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyN, inputs.ModCtrl)), Exported)
	if want := "crop_color_1-4_10-30_8-38.npy"; m.Detail != want || exp.names[0] != want {
		t.Errorf("got %q, want %q", m.Detail, want)
	}
	if got := exp.arrays[0].Shape(); got != [4]int{3, 30, 20, 3} {
		t.Errorf("unexpected crop shape %v", got)
	}
}

func TestFailedExportLeavesStateUnchanged(t *testing.T) {
	exp := &fakeExporter{err: errors.New("clipboard unavailable")}
	s := newSession(t, exp, "color", "depth")
	s.Animation().GoTo(2)
	s.HandleEvent(inputs.Press(inputs.KeyX, 0))
	s.HandleEvent(inputs.Click(inputs.ButtonRight, 10, 10))
	s.HandleEvent(inputs.Drag(inputs.ButtonRight, 30, 40, 20, 30))
	s.HandleEvent(inputs.Release(inputs.ButtonRight, 30, 40))
	s.HandleEvent(inputs.Wheel(20, 20, 1))

	version := s.Animation().Version()
	translation := s.Viewport().Translation
	scale := s.Viewport().Zoom.Scale()
	corners, _ := s.Selector().Corners()

	for _, key := range []inputs.Key{inputs.KeyX, inputs.KeyC, inputs.KeyN} {
		m := expectKind(t, s.HandleEvent(inputs.Press(key, inputs.ModCtrl)), ExportFailed)
		if m.Detail != "clipboard unavailable" {
			t.Errorf("%v: unexpected detail %q", key, m.Detail)
		}
	}

	if s.Animation().HasFrameChangedSince(version) || s.Animation().FrameIndex() != 2 || s.Animation().ActiveIndex() != 1 {
		t.Error("animation changed after failed exports")
	}
	if s.Viewport().Translation != translation || s.Viewport().Zoom.Scale() != scale {
		t.Error("viewport changed after failed exports")
	}
	if c, ok := s.Selector().Corners(); !ok || c != corners {
		t.Error("selection changed after failed exports")
	}
	if s.ShouldClose() {
		t.Error("failed export must not end the session")
	}
}

func TestSliderSeeksWithoutPanning(t *testing.T) {
	s := newSession(t, nil, "color")
	before := s.Viewport().Translation
	// 64 px window: bar from x=20 to x=44 over 4 frames
	expectKind(t, s.HandleEvent(inputs.Click(inputs.ButtonLeft, 40, 20)), FrameChanged)
	if s.Animation().FrameIndex() != 3 {
		t.Errorf("expected frame 3, got %d", s.Animation().FrameIndex())
	}
	expectKind(t, s.HandleEvent(inputs.Drag(inputs.ButtonLeft, 21, 20, -19, 0)), FrameChanged)
	if s.Animation().FrameIndex() != 0 {
		t.Errorf("expected frame 0, got %d", s.Animation().FrameIndex())
	}
	if s.Viewport().Translation != before {
		t.Error("slider drag panned the view")
	}
	s.HandleEvent(inputs.Release(inputs.ButtonLeft, 21, 20))

	if ms := s.HandleEvent(inputs.Click(inputs.ButtonLeft, 30, 40)); ms != nil {
		t.Errorf("press off the slider should only start a pan, got %v", kinds(ms))
	}
}

func TestViewEvents(t *testing.T) {
	s := newSession(t, nil, "color")
	s.HandleEvent(inputs.Click(inputs.ButtonLeft, 30, 40))
	expectKind(t, s.HandleEvent(inputs.Drag(inputs.ButtonLeft, 35, 42, 5, 2)), ViewChanged)
	if got := s.Viewport().Translation; got[0] != 37 || got[1] != 26 {
		t.Errorf("unexpected translation after drag %v", got)
	}

	s.HandleEvent(inputs.Event{Kind: inputs.MouseMotion, X: 10, Y: 10})
	s.HandleEvent(inputs.Press(inputs.KeyR, 0))
	if got := s.Viewport().Zoom.LogScale; got != 0.25 {
		t.Errorf("expected log scale 0.25, got %v", got)
	}
	s.HandleEvent(inputs.Press(inputs.KeyW, 0))
	s.HandleEvent(inputs.Press(inputs.KeyR, inputs.ModCtrl))
	if got := s.Viewport().Translation; got[0] != 32 || got[1] != 24 || s.Viewport().Zoom.Scale() != 1 {
		t.Errorf("reset should centre at scale 1, got %v x%v", got, s.Viewport().Zoom.Scale())
	}

	expectKind(t, s.HandleEvent(inputs.Resized(128, 96)), ViewChanged)
	if got := s.Viewport().Translation; got[0] != 64 || got[1] != 48 {
		t.Errorf("resize should keep the content centred, got %v", got)
	}
	expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyQ, inputs.ModCtrl)), CloseRequested)
	if !s.ShouldClose() {
		t.Error("ctrl+q should request close")
	}
}

func TestDisplayKeys(t *testing.T) {
	s := newSession(t, nil, "color")
	m := expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyRightBracket, 0)), DisplayChanged)
	if s.Animation().Exposure() != 2 {
		t.Errorf("expected exposure 2, got %v (%s)", s.Animation().Exposure(), m.Detail)
	}
	s.HandleEvent(inputs.Press(inputs.KeyApostrophe, 0))
	if g := s.Animation().Gamma(); g < 1.09 || g > 1.11 {
		t.Errorf("expected gamma 1.1, got %v", g)
	}
	expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyBackspace, 0)), DisplayChanged)
	expectKind(t, s.HandleEvent(inputs.Press(inputs.KeyBackspace, 0)), NoOp)
	if s.Animation().Exposure() != 1 || s.Animation().Gamma() != 1 {
		t.Error("reset display should restore defaults")
	}
}

func TestOverlay(t *testing.T) {
	s := newSession(t, nil, "color")
	o := s.Overlay()
	if o.HasCrop || o.Timeline == nil || o.Status == "" {
		t.Fatalf("unexpected initial overlay %+v", o)
	}
	s.HandleEvent(inputs.Click(inputs.ButtonRight, 30, 40))
	if o = s.Overlay(); o.HasCrop {
		t.Errorf("a zero-area selection must not be drawn: %v", o.Crop)
	}
	s.HandleEvent(inputs.Drag(inputs.ButtonRight, 10, 10, -20, -30))
	o = s.Overlay()
	if !o.HasCrop || o.Crop != [4]float64{10, 10, 30, 40} {
		t.Errorf("unexpected crop overlay %v", o.Crop)
	}
}

package viewport

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestZoomLevelStaysClamped(t *testing.T) {
	z := NewZoomLevel()
	steps := []float64{3, 3, 3, 3, -5, -20, 0.25, 7.5, 100, -100, 0.5}
	for i, s := range steps {
		before := z.Scale()
		f := z.ZoomIn(s)
		if z.LogScale < z.Min || z.LogScale > z.Max {
			t.Fatalf("step %d: log scale %v escaped [%v, %v]", i, z.LogScale, z.Min, z.Max)
		}
		if !near(z.Scale(), math.Exp2(z.LogScale)) {
			t.Errorf("step %d: scale %v != 2^%v", i, z.Scale(), z.LogScale)
		}
		if !near(before*f, z.Scale()) {
			t.Errorf("step %d: factor %v does not match scale change %v -> %v", i, f, before, z.Scale())
		}
	}
}

func TestZoomLevelClampReportsActualFactor(t *testing.T) {
	z := NewZoomLevel()
	z.LogScale = 7.75
	if f := z.ZoomIn(1); !near(f, math.Exp2(0.25)) {
		t.Errorf("expected clamped factor 2^0.25, got %v", f)
	}
	if f := z.ZoomIn(1); f != 1 {
		t.Errorf("expected factor 1 at the limit, got %v", f)
	}
	z.Reset()
	if z.LogScale != 0 || z.Scale() != 1 {
		t.Errorf("reset left log scale at %v", z.LogScale)
	}
}

func TestCursorAnchoredZoomScenario(t *testing.T) {
	v := New(200, 200)
	v.Translation = Vec2{100, 100}
	v.KeyZoomStep = 1

	f := v.OnZoomKey(Vec2{50, 50}, true)
	if f != 2 {
		t.Fatalf("expected factor 2, got %v", f)
	}
	if v.Translation != (Vec2{150, 150}) {
		t.Errorf("expected translation (150,150), got %v", v.Translation)
	}
}

func TestCursorAnchorKeepsWorldPoint(t *testing.T) {
	tests := []struct {
		translation Vec2
		cursor      Vec2
		scroll      float64
		logScale    float64
	}{
		{Vec2{100, 100}, Vec2{50, 50}, 1, 0},
		{Vec2{-30, 400}, Vec2{640, 12}, -3, 2.5},
		{Vec2{0, 0}, Vec2{0, 0}, 2, -1},
		{Vec2{12.5, 99}, Vec2{800, 600}, 0.5, 7.9},
		{Vec2{320, 240}, Vec2{1, 479}, -40, -7},
	}
	for i, tc := range tests {
		v := New(640, 480)
		v.Translation = tc.translation
		v.Zoom.LogScale = tc.logScale

		before := v.ScreenToLocal(tc.cursor)
		v.OnScroll(tc.cursor, tc.scroll)
		after := v.ScreenToLocal(tc.cursor)

		if !near(before[0], after[0]) || !near(before[1], after[1]) {
			t.Errorf("case %d: world point under cursor moved %v -> %v", i, before, after)
		}
	}
}

func TestResizeShiftsByCenterDelta(t *testing.T) {
	v := New(640, 480)
	v.OnDrag(10, -5)
	v.OnResize(800, 600)
	want := Vec2{320 + 10 + 80, 240 - 5 + 60}
	if v.Translation != want {
		t.Errorf("expected %v, got %v", want, v.Translation)
	}
	w, h := v.Size()
	if w != 800 || h != 600 {
		t.Errorf("size not updated: %dx%d", w, h)
	}
}

func TestResetRecentres(t *testing.T) {
	v := New(640, 480)
	v.OnDrag(33, 44)
	v.OnScroll(Vec2{10, 10}, 3)
	v.OnResize(1000, 500)
	v.Reset()
	if v.Translation != (Vec2{500, 250}) {
		t.Errorf("expected centre (500,250), got %v", v.Translation)
	}
	if v.Zoom.Scale() != 1 {
		t.Errorf("expected scale 1, got %v", v.Zoom.Scale())
	}
}

func TestPanUsesStep(t *testing.T) {
	v := New(100, 100)
	v.Pan(1, 0)
	v.Pan(0, -1)
	if v.Translation != (Vec2{70, 30}) {
		t.Errorf("unexpected translation %v", v.Translation)
	}
}

func TestModelMatrixRoundTrip(t *testing.T) {
	v := New(640, 480)
	v.Translation = Vec2{123, -45}
	v.Zoom.LogScale = 1.5

	m := v.ModelMatrix()
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("model matrix should be invertible")
	}
	p := Vec2{17, 29}
	q := inv.Apply(m.Apply(p))
	if math.Abs(q[0]-p[0]) > eps || math.Abs(q[1]-p[1]) > eps {
		t.Errorf("round trip mismatch: %v -> %v", p, q)
	}

	// scale happens before translation
	s := v.Zoom.Scale()
	got := m.Apply(Vec2{1, 1})
	if !near(got[0], 123+s) || !near(got[1], -45+s) {
		t.Errorf("unexpected composition order: %v", got)
	}
}

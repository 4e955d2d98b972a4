package animation

import (
	"errors"
	"testing"
)

func uint8Source(t *testing.T, name string, frames, h, w, c int) *Source {
	t.Helper()
	data := make([]uint8, frames*h*w*c)
	for i := range data {
		data[i] = uint8(i)
	}
	s, err := NewUint8Source(name, frames, h, w, c, data)
	if err != nil {
		t.Fatalf("failed to create source %q: %v", name, err)
	}
	return s
}

func TestNewValidatesSources(t *testing.T) {
	tests := []struct {
		name    string
		sources func(t *testing.T) []*Source
		fps     float64
		wantErr error
	}{
		{
			name:    "empty",
			sources: func(t *testing.T) []*Source { return nil },
			fps:     DefaultFPS,
			wantErr: ErrNoSources,
		},
		{
			name: "mismatched frame counts",
			sources: func(t *testing.T) []*Source {
				return []*Source{uint8Source(t, "a", 5, 10, 10, 3), uint8Source(t, "b", 6, 10, 10, 3)}
			},
			fps:     DefaultFPS,
			wantErr: ErrShapeMismatch,
		},
		{
			name: "mismatched width",
			sources: func(t *testing.T) []*Source {
				return []*Source{uint8Source(t, "a", 5, 10, 10, 3), uint8Source(t, "b", 5, 10, 11, 3)}
			},
			fps:     DefaultFPS,
			wantErr: ErrShapeMismatch,
		},
		{
			name: "different channel counts",
			sources: func(t *testing.T) []*Source {
				return []*Source{uint8Source(t, "a", 5, 10, 10, 3), uint8Source(t, "b", 5, 10, 10, 4)}
			},
			fps: DefaultFPS,
		},
		{
			name: "duplicate names",
			sources: func(t *testing.T) []*Source {
				return []*Source{uint8Source(t, "a", 1, 2, 2, 1), uint8Source(t, "a", 1, 2, 2, 1)}
			},
			fps:     DefaultFPS,
			wantErr: ErrDuplicateName,
		},
		{
			name: "zero fps",
			sources: func(t *testing.T) []*Source {
				return []*Source{uint8Source(t, "a", 1, 2, 2, 1)}
			},
			fps:     0,
			wantErr: ErrInvalidFPS,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := New(tc.sources(t), tc.fps)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if a.FrameIndex() != 0 || a.ActiveIndex() != 0 || a.Running() {
					t.Errorf("unexpected initial state: frame %d source %d running %v", a.FrameIndex(), a.ActiveIndex(), a.Running())
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("error %v does not wrap ErrConfiguration", err)
			}
		})
	}
}

func TestFrameNavigationWraps(t *testing.T) {
	a, err := New([]*Source{uint8Source(t, "a", 7, 2, 2, 1)}, DefaultFPS)
	if err != nil {
		t.Fatal(err)
	}
	a.GoTo(3)
	for i := 0; i < a.FrameCount(); i++ {
		a.GoNext()
	}
	if a.FrameIndex() != 3 {
		t.Errorf("go_next x frame_count should return to 3, got %d", a.FrameIndex())
	}
	for i := 0; i < a.FrameCount(); i++ {
		a.GoPrevious()
	}
	if a.FrameIndex() != 3 {
		t.Errorf("go_previous x frame_count should return to 3, got %d", a.FrameIndex())
	}

	a.GoEnd()
	a.GoNext()
	if a.FrameIndex() != 0 {
		t.Errorf("next from the last frame should wrap to 0, got %d", a.FrameIndex())
	}
	a.GoPrevious()
	if a.FrameIndex() != 6 {
		t.Errorf("previous from 0 should wrap to 6, got %d", a.FrameIndex())
	}
	a.GoTo(-1)
	if a.FrameIndex() != 6 {
		t.Errorf("GoTo(-1) should wrap to 6, got %d", a.FrameIndex())
	}
}

func TestSourceSwitchKeepsFrame(t *testing.T) {
	a, err := New([]*Source{
		uint8Source(t, "color", 4, 3, 3, 3),
		uint8Source(t, "depth", 4, 3, 3, 1),
		uint8Source(t, "normal", 4, 3, 3, 4),
	}, DefaultFPS)
	if err != nil {
		t.Fatal(err)
	}
	a.GoTo(2)

	a.NextSource()
	a.PreviousSource()
	if a.ActiveIndex() != 0 || a.FrameIndex() != 2 {
		t.Errorf("next then previous: source %d frame %d", a.ActiveIndex(), a.FrameIndex())
	}
	a.PreviousSource()
	if a.ActiveSource().Name != "normal" || a.FrameIndex() != 2 {
		t.Errorf("previous from first should wrap to normal, got %q frame %d", a.ActiveSource().Name, a.FrameIndex())
	}
	a.NextSource()
	if a.ActiveIndex() != 0 {
		t.Errorf("expected wrap back to 0, got %d", a.ActiveIndex())
	}
}

func TestPlaybackScenario(t *testing.T) {
	a, err := New([]*Source{uint8Source(t, "a", 4, 2, 2, 1)}, 10)
	if err != nil {
		t.Fatal(err)
	}
	sched := NewScheduler()
	a.SetScheduler(sched)

	a.GoStart()
	a.Start()
	a.Start()
	if !sched.Active() {
		t.Fatal("scheduler should be active after start")
	}
	ticks := 0
	for i := 1; i <= 4; i++ {
		if sched.Poll(float64(i)*0.1 + 0.01) {
			ticks++
		}
	}
	if ticks != 4 {
		t.Fatalf("expected 4 ticks, got %d", ticks)
	}
	if a.FrameIndex() != 0 {
		t.Errorf("expected frame 0 after a full cycle, got %d", a.FrameIndex())
	}
}

func TestStopMakesStaleTickNoOp(t *testing.T) {
	a, err := New([]*Source{uint8Source(t, "a", 4, 2, 2, 1)}, 10)
	if err != nil {
		t.Fatal(err)
	}
	sched := NewScheduler()
	a.SetScheduler(sched)

	a.Toggle()
	if !a.Running() {
		t.Fatal("toggle should start playback")
	}
	sched.Poll(0.15)
	if a.FrameIndex() != 1 {
		t.Fatalf("expected frame 1, got %d", a.FrameIndex())
	}
	a.Toggle()
	if a.Running() || sched.Active() {
		t.Fatal("toggle should stop playback and unsubscribe")
	}
	a.Step()
	if sched.Poll(10) {
		t.Error("no tick should fire after stop")
	}
	if a.FrameIndex() != 1 {
		t.Errorf("stale tick advanced the frame to %d", a.FrameIndex())
	}
}

func TestSchedulerLateLoopDoesNotBurst(t *testing.T) {
	s := NewScheduler()
	n := 0
	s.Start(0.1, func() { n++ })
	if !s.Poll(5) {
		t.Fatal("expected a tick")
	}
	if s.Poll(5.05) {
		t.Error("schedule should realign after a late poll")
	}
	if !s.Poll(5.11) {
		t.Error("expected a tick one interval after realignment")
	}
	if n != 2 {
		t.Errorf("expected 2 callbacks, got %d", n)
	}
	if s.Start(1, func() {}) {
		t.Error("second start should be refused while active")
	}
}

func TestVersionTracksVisibleChanges(t *testing.T) {
	a, err := New([]*Source{uint8Source(t, "a", 3, 2, 2, 1), uint8Source(t, "b", 3, 2, 2, 1)}, DefaultFPS)
	if err != nil {
		t.Fatal(err)
	}
	v := a.Version()
	a.GoStart()
	if a.HasFrameChangedSince(v) {
		t.Error("going to the current frame should not bump the version")
	}
	a.GoNext()
	if !a.HasFrameChangedSince(v) {
		t.Error("frame change should bump the version")
	}
	v = a.Version()
	a.NextSource()
	if !a.HasFrameChangedSince(v) {
		t.Error("source change should bump the version")
	}
	v = a.Version()
	key := a.ActivePixelSource().Key()
	a.SetExposure(2)
	if !a.HasFrameChangedSince(v) {
		t.Error("exposure change should bump the version")
	}
	if a.ActivePixelSource().Key() == key {
		t.Error("exposure change should produce a new texture key")
	}
}

func TestCropCopiesWindow(t *testing.T) {
	s := uint8Source(t, "a", 3, 4, 5, 2)
	c, err := s.Crop(1, 3, 2, 4, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if c.Shape() != [4]int{2, 2, 2, 2} {
		t.Fatalf("unexpected shape %v", c.Shape())
	}
	for tt := 0; tt < 2; tt++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				for ch := 0; ch < 2; ch++ {
					if got, want := c.Sample(tt, y, x, ch), s.Sample(tt+1, y+1, x+2, ch); got != want {
						t.Errorf("sample (%d,%d,%d,%d) = %v, want %v", tt, y, x, ch, got, want)
					}
				}
			}
		}
	}
	if _, err := s.Crop(0, 4, 0, 1, 0, 1); err == nil {
		t.Error("expected error for frames past the end")
	}
	if _, err := s.Crop(0, 1, 2, 2, 0, 1); err == nil {
		t.Error("expected error for an empty window")
	}
}

package animation

import (
	"errors"
	"fmt"
	"image"

	"github.com/richinsley/goframeview/graphics"
)

const DefaultFPS = 30.0

var (
	// ErrConfiguration is wrapped by every construction failure.
	ErrConfiguration = errors.New("invalid animation configuration")

	ErrNoSources     = fmt.Errorf("%w: no sources", ErrConfiguration)
	ErrShapeMismatch = fmt.Errorf("%w: sources differ in frames, height or width", ErrConfiguration)
	ErrInvalidFPS    = fmt.Errorf("%w: fps must be positive", ErrConfiguration)
	ErrDuplicateName = fmt.Errorf("%w: duplicate source name", ErrConfiguration)
)

// Animation is the playback state over one or more sources that share
// frame count, height and width.
type Animation struct {
	sources []*Source
	active  int
	frame   int
	running bool
	fps     float64

	// gamma 0 means the active source's default.
	gamma    float64
	exposure float64

	scheduler *Scheduler

	version        uint64
	displayVersion uint64
}

// New validates sources and returns an animation at frame 0 of the first
// source. Channel count and format may differ between sources.
func New(sources []*Source, fps float64) (*Animation, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	if fps <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFPS, fps)
	}
	first := sources[0]
	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		if s == nil {
			return nil, fmt.Errorf("%w: nil source", ErrConfiguration)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, s.Name)
		}
		seen[s.Name] = true
		if s.Frames != first.Frames || s.Height != first.Height || s.Width != first.Width {
			return nil, fmt.Errorf("%w: %q is %dx%dx%d, %q is %dx%dx%d", ErrShapeMismatch,
				first.Name, first.Frames, first.Height, first.Width,
				s.Name, s.Frames, s.Height, s.Width)
		}
	}
	return &Animation{
		sources:  sources,
		fps:      fps,
		exposure: 1,
	}, nil
}

// SetScheduler binds the timer that drives playback. A running animation is
// moved onto the new scheduler.
func (a *Animation) SetScheduler(s *Scheduler) {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	a.scheduler = s
	if a.running && s != nil {
		s.Start(a.interval(), a.Step)
	}
}

func (a *Animation) interval() float64 { return 1 / a.fps }

func (a *Animation) Sources() []*Source { return a.sources }
func (a *Animation) SourceCount() int { return len(a.sources) }
func (a *Animation) ActiveIndex() int { return a.active }
func (a *Animation) ActiveSource() *Source { return a.sources[a.active] }
func (a *Animation) FrameIndex() int { return a.frame }
func (a *Animation) FrameCount() int { return a.sources[0].Frames }
func (a *Animation) Width() int { return a.sources[0].Width }
func (a *Animation) Height() int { return a.sources[0].Height }
func (a *Animation) FPS() float64 { return a.fps }
func (a *Animation) Running() bool { return a.running }

// Version increases whenever the displayed pixels may have changed.
func (a *Animation) Version() uint64 { return a.version }

func (a *Animation) HasFrameChangedSince(v uint64) bool { return a.version != v }

func (a *Animation) setFrame(i int) {
	if i != a.frame {
		a.frame = i
		a.version++
	}
}

func (a *Animation) setActive(i int) {
	if i != a.active {
		a.active = i
		a.version++
	}
}

func (a *Animation) GoStart() { a.setFrame(0) }

func (a *Animation) GoEnd() { a.setFrame(a.FrameCount() - 1) }

func (a *Animation) GoNext() { a.setFrame(wrap(a.frame+1, a.FrameCount())) }

func (a *Animation) GoPrevious() { a.setFrame(wrap(a.frame-1, a.FrameCount())) }

// GoTo jumps to frame i, wrapped into range.
func (a *Animation) GoTo(i int) { a.setFrame(wrap(i, a.FrameCount())) }

// NextSource switches to the following source, keeping the frame index.
func (a *Animation) NextSource() { a.setActive(wrap(a.active+1, len(a.sources))) }

func (a *Animation) PreviousSource() { a.setActive(wrap(a.active-1, len(a.sources))) }

// Start begins playback. Starting a running animation does nothing.
func (a *Animation) Start() {
	a.running = true
	if a.scheduler != nil {
		a.scheduler.Start(a.interval(), a.Step)
	}
}

func (a *Animation) Stop() {
	a.running = false
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
}

func (a *Animation) Toggle() {
	if a.running {
		a.Stop()
	} else {
		a.Start()
	}
}

// Step is the scheduler callback. It is a no-op unless the animation is running,
// so a tick delivered after Stop cannot advance the frame.
func (a *Animation) Step() {
	if !a.running {
		return
	}
	a.GoNext()
}

// Exposure is the multiplier applied before gamma in display conversion.
func (a *Animation) Exposure() float64 { return a.exposure }

// Gamma is the display gamma for the active source.
func (a *Animation) Gamma() float64 {
	if a.gamma > 0 {
		return a.gamma
	}
	return a.ActiveSource().DefaultGamma()
}

func (a *Animation) SetExposure(e float64) {
	if e <= 0 || e == a.exposure {
		return
	}
	a.exposure = e
	a.displayChanged()
}

func (a *Animation) SetGamma(g float64) {
	if g <= 0 || g == a.gamma {
		return
	}
	a.gamma = g
	a.displayChanged()
}

// ResetDisplay restores exposure 1 and the per-source default gamma.
func (a *Animation) ResetDisplay() {
	if a.exposure == 1 && a.gamma == 0 {
		return
	}
	a.exposure = 1
	a.gamma = 0
	a.displayChanged()
}

func (a *Animation) displayChanged() {
	a.displayVersion++
	a.version++
}

// FrameAsDisplayPixels converts frame t of the active source with the current
// exposure and gamma. It does not modify the animation.
func (a *Animation) FrameAsDisplayPixels(t int) *image.RGBA {
	return DisplayPixels(a.ActiveSource(), wrap(t, a.FrameCount()), a.exposure, a.Gamma())
}

// ActivePixelSource returns the frame currently on screen.
func (a *Animation) ActivePixelSource() graphics.PixelSource {
	return frameRef{
		anim: a,
		key:  graphics.TextureKey{Source: a.active, Frame: a.frame, Display: a.displayVersion},
	}
}

type frameRef struct {
	anim *Animation
	key  graphics.TextureKey
}

func (f frameRef) Key() graphics.TextureKey { return f.key }

func (f frameRef) Size() (int, int) { return f.anim.Width(), f.anim.Height() }

func (f frameRef) Pixels() *image.RGBA {
	s := f.anim.sources[f.key.Source]
	gamma := f.anim.gamma
	if gamma <= 0 {
		gamma = s.DefaultGamma()
	}
	return DisplayPixels(s, f.key.Frame, f.anim.exposure, gamma)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

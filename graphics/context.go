package graphics

import (
	"image"

	"github.com/richinsley/goframeview/inputs"
	"github.com/richinsley/goframeview/viewport"
)

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	SetShouldClose(bool)
	SetTitle(string)
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// PollEvents returns the input events queued since the previous call,
	// in framebuffer pixels with a bottom-left origin.
	PollEvents() []inputs.Event
}

// TextureKey identifies the display pixels of one frame. Display changes
// whenever exposure or gamma change, so a cached texture with an older key is stale.
type TextureKey struct {
	Source  int
	Frame   int
	Display uint64
}

// PixelSource is the frame a Renderable currently wants on screen.
type PixelSource interface {
	Key() TextureKey
	Size() (width, height int)
	// Pixels converts the frame to display-ready RGBA, rows top to bottom.
	Pixels() *image.RGBA
}

// Timeline describes the playback slider in window pixels.
type Timeline struct {
	X, Y, Length, Stroke float64
	Position             float64 // knob position in [0, 1]
}

// Overlay is everything drawn on top of the frame.
type Overlay struct {
	// Crop is x1, y1, x2, y2 in frame pixels with a bottom-left origin.
	Crop     [4]float64
	HasCrop  bool
	Status   string
	Timeline *Timeline
}

// Renderable is consumed by the renderer; it knows nothing about input handling.
type Renderable interface {
	ModelTransform() viewport.Aff3
	ActivePixelSource() PixelSource
	Overlay() Overlay
}

// Package timeline implements the frame slider drawn along the bottom of the window.
package timeline

const (
	Margin = 20.0
	Stroke = 10.0
)

// Slider maps a horizontal bar to frame indices. Coordinates are window
// pixels with a bottom-left origin.
type Slider struct {
	X, Y   float64
	Length float64
	Stroke float64
	Steps  int
}

// Layout returns the slider for a window of the given width.
func Layout(windowWidth int, steps int) Slider {
	length := float64(windowWidth) - 2*Margin
	if length < 1 {
		length = 1
	}
	return Slider{X: Margin, Y: Margin, Length: length, Stroke: Stroke, Steps: steps}
}

// Visible is false when there is nothing to scrub.
func (s Slider) Visible() bool {
	return s.Steps > 1
}

// Hit reports whether (x, y) is on the bar, with half a stroke of slack
// around it.
func (s Slider) Hit(x, y float64) bool {
	if !s.Visible() {
		return false
	}
	pad := s.Stroke / 2
	return x >= s.X-pad && x <= s.X+s.Length+pad &&
		y >= s.Y-s.Stroke && y <= s.Y+s.Stroke
}

// StepAt converts an x position into a step in [0, Steps-1].
func (s Slider) StepAt(x float64) int {
	ratio := (x - s.X) / s.Length
	step := int(ratio * float64(s.Steps))
	if step < 0 {
		return 0
	}
	if step > s.Steps-1 {
		return s.Steps - 1
	}
	return step
}

// Position is the knob's place along the bar in [0, 1] for step.
func (s Slider) Position(step int) float64 {
	if s.Steps <= 1 {
		return 0
	}
	return float64(step) / float64(s.Steps-1)
}

// Package inputs defines the window-system independent input events and the
// mapping from key chords to viewer actions.
package inputs

import "fmt"

// Kind enumerates the input events the viewer understands.
type Kind int

const (
	KeyPress Kind = iota
	KeyRepeat
	KeyRelease
	MousePress
	MouseRelease
	MouseMotion
	MouseDrag
	Scroll
	Resize
	CloseRequest
)

var kindNames = [...]string{
	KeyPress:     "KeyPress",
	KeyRepeat:    "KeyRepeat",
	KeyRelease:   "KeyRelease",
	MousePress:   "MousePress",
	MouseRelease: "MouseRelease",
	MouseMotion:  "MouseMotion",
	MouseDrag:    "MouseDrag",
	Scroll:       "Scroll",
	Resize:       "Resize",
	CloseRequest: "CloseRequest",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Button is a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Mod is a bit set of held modifier keys.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Event is one input occurrence. Positions are framebuffer pixels with a
// bottom-left origin; DX/DY are the motion since the previous position, or
// the scroll offsets for Scroll.
type Event struct {
	Kind   Kind
	Key    Key
	Mods   Mod
	Button Button
	X, Y   float64
	DX, DY float64
	Width  int
	Height int
}

// Convenience constructors, mostly for tests and replayed input.

func Press(key Key, mods Mod) Event { return Event{Kind: KeyPress, Key: key, Mods: mods} }

func Click(b Button, x, y float64) Event {
	return Event{Kind: MousePress, Button: b, X: x, Y: y}
}

func Release(b Button, x, y float64) Event {
	return Event{Kind: MouseRelease, Button: b, X: x, Y: y}
}

func Drag(b Button, x, y, dx, dy float64) Event {
	return Event{Kind: MouseDrag, Button: b, X: x, Y: y, DX: dx, DY: dy}
}

func Wheel(x, y, amount float64) Event {
	return Event{Kind: Scroll, X: x, Y: y, DY: amount}
}

func Resized(w, h int) Event { return Event{Kind: Resize, Width: w, Height: h} }

package inputs

import "fmt"

// Action is a viewer command a key chord can be bound to.
type Action int

const (
	ActionNone Action = iota
	GoStart
	GoEnd
	GoNext
	GoPrevious
	TogglePlayback
	NextSource
	PreviousSource
	ZoomIn
	ZoomOut
	ResetView
	PanUp
	PanDown
	PanLeft
	PanRight
	ExposureUp
	ExposureDown
	GammaUp
	GammaDown
	ResetDisplay
	CopyCoordinates
	CopyPixels
	SaveCrop
	Close
)

var actionNames = [...]string{
	ActionNone:      "none",
	GoStart:         "go_start",
	GoEnd:           "go_end",
	GoNext:          "go_next",
	GoPrevious:      "go_previous",
	TogglePlayback:  "toggle_playback",
	NextSource:      "next_source",
	PreviousSource:  "previous_source",
	ZoomIn:          "zoom_in",
	ZoomOut:         "zoom_out",
	ResetView:       "reset_view",
	PanUp:           "pan_up",
	PanDown:         "pan_down",
	PanLeft:         "pan_left",
	PanRight:        "pan_right",
	ExposureUp:      "exposure_up",
	ExposureDown:    "exposure_down",
	GammaUp:         "gamma_up",
	GammaDown:       "gamma_down",
	ResetDisplay:    "reset_display",
	CopyCoordinates: "copy_coordinates",
	CopyPixels:      "copy_pixels",
	SaveCrop:        "save_crop",
	Close:           "close",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction is the inverse of Action.String.
func ParseAction(s string) (Action, error) {
	for i, n := range actionNames {
		if n == s {
			return Action(i), nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

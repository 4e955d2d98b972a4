package session

import (
	"fmt"

	"github.com/richinsley/goframeview/inputs"
)

// MutationKind says which part of the session state an event changed.
type MutationKind int

const (
	// NoOp means the event was understood but there was nothing to do.
	NoOp MutationKind = iota
	FrameChanged
	SourceChanged
	PlaybackChanged
	ViewChanged
	SelectionChanged
	DisplayChanged
	Exported
	ExportFailed
	CloseRequested
)

var mutationNames = [...]string{
	NoOp:             "NoOp",
	FrameChanged:     "FrameChanged",
	SourceChanged:    "SourceChanged",
	PlaybackChanged:  "PlaybackChanged",
	ViewChanged:      "ViewChanged",
	SelectionChanged: "SelectionChanged",
	DisplayChanged:   "DisplayChanged",
	Exported:         "Exported",
	ExportFailed:     "ExportFailed",
	CloseRequested:   "CloseRequested",
}

func (k MutationKind) String() string {
	if k >= 0 && int(k) < len(mutationNames) {
		return mutationNames[k]
	}
	return fmt.Sprintf("MutationKind(%d)", int(k))
}

// Mutation reports one state change made by HandleEvent.
type Mutation struct {
	Kind   MutationKind
	Action inputs.Action
	Detail string
}

func (m Mutation) String() string {
	if m.Detail == "" {
		return m.Kind.String()
	}
	return m.Kind.String() + ": " + m.Detail
}

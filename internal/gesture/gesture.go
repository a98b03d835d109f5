// Package gesture turns raw pointer and touch event streams into selection
// edits.
//
// Two machines share one Target:
//
//	Pointer: idle -> dragging(select|deselect) -> idle
//	Touch:   idle -> pending -> selecting|scrolling -> idle
//
// The first cell of a gesture decides its direction: starting on an
// unselected slot paints, starting on a selected one erases.
package gesture

import (
	"fmt"

	"github.com/javiermolinar/awase/internal/slot"
)

// Target is the selection a gesture edits.
type Target interface {
	IsSelected(slot.Slot) bool
	Toggle(slot.Slot)
}

// Grouper is implemented by targets that can fold a whole gesture into one
// undo step. It is optional.
type Grouper interface {
	BeginGroup()
	EndGroup()
}

// State is a gesture machine state.
type State int

const (
	StateIdle State = iota
	StateDragging
	StatePending
	StateSelecting
	StateScrolling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StatePending:
		return "pending"
	case StateSelecting:
		return "selecting"
	case StateScrolling:
		return "scrolling"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mode is the direction of a drag.
type Mode int

const (
	ModeSelect Mode = iota
	ModeDeselect
)

func (m Mode) String() string {
	if m == ModeDeselect {
		return "deselect"
	}
	return "select"
}

// TransitionFunc observes state changes. It must not call back into the
// machine that reports it.
type TransitionFunc func(from, to State)

// paint applies a drag step: in select mode an unselected slot is selected,
// in deselect mode a selected slot is deselected, anything else is left
// alone.
func paint(t Target, s slot.Slot, mode Mode) {
	selected := t.IsSelected(s)
	switch {
	case mode == ModeSelect && !selected:
		t.Toggle(s)
	case mode == ModeDeselect && selected:
		t.Toggle(s)
	}
}

func beginGroup(t Target) {
	if g, ok := t.(Grouper); ok {
		g.BeginGroup()
	}
}

func endGroup(t Target) {
	if g, ok := t.(Grouper); ok {
		g.EndGroup()
	}
}

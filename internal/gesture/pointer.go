package gesture

import (
	"github.com/javiermolinar/awase/internal/slot"
)

// Button identifies a mouse button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Pointer is the mouse drag machine. It is driven from a single event loop
// and is not safe for concurrent use.
type Pointer struct {
	target       Target
	onTransition TransitionFunc

	state   State
	mode    Mode
	last    slot.Slot
	hasLast bool
}

// NewPointer returns an idle pointer machine editing target.
func NewPointer(target Target) *Pointer {
	return &Pointer{target: target}
}

// OnTransition registers fn to observe state changes.
func (p *Pointer) OnTransition(fn TransitionFunc) {
	p.onTransition = fn
}

// State returns the current state.
func (p *Pointer) State() State { return p.state }

// Dragging reports whether a drag is in progress.
func (p *Pointer) Dragging() bool { return p.state == StateDragging }

// Mode returns the direction of the current drag. Meaningless when idle.
func (p *Pointer) Mode() Mode { return p.mode }

// Press starts a gesture on s: the slot is toggled at once and its new
// state fixes the drag mode. Only the primary button starts a gesture; the
// return value reports whether this one did.
func (p *Pointer) Press(b Button, s slot.Slot) bool {
	if b != ButtonPrimary {
		return false
	}
	if p.state == StateDragging {
		p.finish()
	}

	beginGroup(p.target)
	p.target.Toggle(s)
	if p.target.IsSelected(s) {
		p.mode = ModeSelect
	} else {
		p.mode = ModeDeselect
	}
	p.last = s
	p.hasLast = true
	p.setState(StateDragging)
	return true
}

// Enter handles the pointer moving over s. Re-entering the last affected
// slot is a no-op.
func (p *Pointer) Enter(s slot.Slot) {
	if p.state != StateDragging {
		return
	}
	if p.hasLast && s == p.last {
		return
	}
	paint(p.target, s, p.mode)
	p.last = s
	p.hasLast = true
}

// Release ends the drag.
func (p *Pointer) Release() {
	p.finish()
}

// Cancel abandons the drag, keeping edits already applied.
func (p *Pointer) Cancel() {
	p.finish()
}

func (p *Pointer) finish() {
	if p.state == StateIdle {
		return
	}
	endGroup(p.target)
	p.last = slot.Slot{}
	p.hasLast = false
	p.setState(StateIdle)
}

func (p *Pointer) setState(s State) {
	from := p.state
	p.state = s
	if p.onTransition != nil && from != s {
		p.onTransition(from, s)
	}
}

package gesture

import (
	"sync"
	"time"

	"github.com/javiermolinar/awase/internal/slot"
)

// Touch timing and distance constants.
const (
	LongPressDelay    = 500 * time.Millisecond
	MoveThreshold     = 10.0 // px, per axis
	VibrationDuration = 50 * time.Millisecond
)

// Point is a touch coordinate in pixels.
type Point struct {
	X, Y float64
}

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock schedules the long-press callback.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Haptic produces tactile feedback. Implementations without the capability
// should do nothing.
type Haptic interface {
	Vibrate(d time.Duration)
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// TouchOption configures a Touch machine.
type TouchOption func(*Touch)

// WithClock replaces the wall clock used for the long-press timer.
func WithClock(c Clock) TouchOption {
	return func(t *Touch) { t.clock = c }
}

// WithHaptic sets the feedback device pulsed when a long press arms.
func WithHaptic(h Haptic) TouchOption {
	return func(t *Touch) { t.haptic = h }
}

// WithTransitionHook registers fn to observe state changes.
func WithTransitionHook(fn TransitionFunc) TouchOption {
	return func(t *Touch) { t.onTransition = fn }
}

// Touch is the touch gesture machine. A quick tap toggles one slot; a
// long press arms drag selection; early movement hands the gesture to page
// scrolling.
//
// Event methods and the long-press callback are serialised by a mutex, so
// the default clock may fire from its own goroutine. The Target is only
// called with the lock held.
type Touch struct {
	target       Target
	clock        Clock
	haptic       Haptic
	onTransition TransitionFunc

	mu      sync.Mutex
	state   State
	origin  slot.Slot
	start   Point
	initial bool // origin was selected when the touch began
	last    slot.Slot
	timer   Timer
	gen     uint64 // bumped per gesture; a timer only fires for its own
}

// NewTouch returns an idle touch machine editing target.
func NewTouch(target Target, opts ...TouchOption) *Touch {
	t := &Touch{target: target, clock: realClock{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current state.
func (t *Touch) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start begins a gesture on s at p. A gesture still in flight is cancelled
// first.
func (t *Touch) Start(s slot.Slot, p Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateIdle {
		t.resetLocked()
	}

	t.origin = s
	t.last = s
	t.start = p
	t.initial = t.target.IsSelected(s)
	t.gen++
	gen := t.gen
	t.timer = t.clock.AfterFunc(LongPressDelay, func() { t.longPress(gen) })
	t.setStateLocked(StatePending)
}

// Move reports the finger at p, over s when onSlot is true. The result says
// whether the caller should suppress default scrolling, which is only the
// case while selecting.
func (t *Touch) Move(s slot.Slot, onSlot bool, p Point) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case StatePending:
		if exceeds(t.start, p) {
			t.stopTimerLocked()
			t.setStateLocked(StateScrolling)
		}
		return false
	case StateSelecting:
		if onSlot && s != t.last {
			mode := ModeSelect
			if t.initial {
				mode = ModeDeselect
			}
			paint(t.target, s, mode)
			t.last = s
		}
		return true
	default:
		return false
	}
}

// End finishes the gesture. Lifting while still pending is a tap and
// toggles the originating slot once.
func (t *Touch) End() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StatePending {
		t.stopTimerLocked()
		t.target.Toggle(t.origin)
	}
	t.resetLocked()
}

// Cancel abandons the gesture without a tap. Edits already applied while
// selecting are kept.
func (t *Touch) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

func (t *Touch) longPress(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || t.state != StatePending {
		return
	}
	t.timer = nil
	beginGroup(t.target)
	t.setStateLocked(StateSelecting)
	if t.haptic != nil {
		t.haptic.Vibrate(VibrationDuration)
	}
	t.target.Toggle(t.origin)
}

// resetLocked returns to idle from any state, stopping the timer and
// invalidating any callback already in flight.
func (t *Touch) resetLocked() {
	t.stopTimerLocked()
	t.gen++
	if t.state == StateSelecting {
		endGroup(t.target)
	}
	t.origin = slot.Slot{}
	t.last = slot.Slot{}
	t.initial = false
	t.setStateLocked(StateIdle)
}

func (t *Touch) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Touch) setStateLocked(s State) {
	from := t.state
	t.state = s
	if t.onTransition != nil && from != s {
		t.onTransition(from, s)
	}
}

func exceeds(a, b Point) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx > MoveThreshold || dy > MoveThreshold
}

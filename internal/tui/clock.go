package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/awase/internal/gesture"
	"github.com/javiermolinar/awase/internal/tui/commands"
)

// programRef lets callbacks running on timer goroutines reach the program
// once it exists.
type programRef struct {
	p atomic.Pointer[tea.Program]
}

func (r *programRef) attach(p *tea.Program) { r.p.Store(p) }

func (r *programRef) send(msg tea.Msg) {
	if p := r.p.Load(); p != nil {
		p.Send(msg)
	}
}

// teaClock runs gesture timers on real time but delivers their callbacks
// through the update loop, so the selection is only touched from Update.
type teaClock struct {
	ref *programRef
}

func (c teaClock) AfterFunc(d time.Duration, f func()) gesture.Timer {
	return time.AfterFunc(d, func() {
		c.ref.send(commands.TimerFiredMsg{Fire: f})
	})
}

// pulse stands in for the vibration motor: it flashes the status line.
type pulse struct {
	pending time.Duration
}

func (p *pulse) Vibrate(d time.Duration) {
	p.pending = d
}

// take returns a pulse requested since the last call.
func (p *pulse) take() (time.Duration, bool) {
	d := p.pending
	p.pending = 0
	return d, d > 0
}

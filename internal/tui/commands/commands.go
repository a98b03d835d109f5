// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/slot"
)

// SubmitFunc persists a response and returns a message to show the user.
type SubmitFunc func(ctx context.Context, name string, blocks []slot.Block) (string, error)

// OverlayFunc computes other participants' availability for the overlay.
type OverlayFunc func(ctx context.Context) (aggregate.Result, error)

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// SubmittedMsg is sent once a response has been saved.
type SubmittedMsg struct {
	Message string
}

// OverlayLoadedMsg carries a refreshed overlay.
type OverlayLoadedMsg struct {
	Result aggregate.Result
}

// TimerFiredMsg carries a gesture timer callback onto the update loop.
type TimerFiredMsg struct {
	Fire func()
}

// PulseDoneMsg ends a haptic pulse.
type PulseDoneMsg struct{}

// Submit creates a command that saves the response.
func Submit(fn SubmitFunc, name string, blocks []slot.Block) tea.Cmd {
	return func() tea.Msg {
		if fn == nil {
			return ErrMsg{Err: errors.New("nothing to submit to")}
		}
		msg, err := fn(context.Background(), name, blocks)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("saving response: %w", err)}
		}
		return SubmittedMsg{Message: msg}
	}
}

// LoadOverlay creates a command that recomputes the overlay.
func LoadOverlay(fn OverlayFunc) tea.Cmd {
	if fn == nil {
		return nil
	}
	return func() tea.Msg {
		res, err := fn(context.Background())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading availability: %w", err)}
		}
		return OverlayLoadedMsg{Result: res}
	}
}

// ClearStatusAfter schedules a ClearStatusMsg.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// EndPulseAfter schedules a PulseDoneMsg.
func EndPulseAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return PulseDoneMsg{}
	})
}

package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/config"
	"github.com/javiermolinar/awase/internal/gesture"
	"github.com/javiermolinar/awase/internal/slot"
	"github.com/javiermolinar/awase/internal/tui/commands"
)

// fakeTimer and fakeClock let tests fire the long-press timer by hand.
type fakeTimer struct {
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) gesture.Timer {
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// fired returns the message a real clock would deliver for the last live
// timer.
func (c *fakeClock) fired(t *testing.T) tea.Msg {
	t.Helper()
	for i := len(c.timers) - 1; i >= 0; i-- {
		if !c.timers[i].stopped {
			return commands.TimerFiredMsg{Fire: c.timers[i].f}
		}
	}
	t.Fatal("no live timer")
	return nil
}

func day05(tm string) slot.Slot { return slot.Slot{Date: "2025-11-05", Time: tm} }

func testOptions() Options {
	return Options{
		Title: "Team lunch",
		Candidates: []slot.CandidateRange{
			{Date: "2025-11-05", Start: "10:00", End: "12:00"},
			{Date: "2025-11-06", Start: "10:00", End: "11:00"},
		},
		Name: "Aiko",
		UI: config.UIConfig{
			Theme:        "mocha",
			Input:        config.InputPointer,
			CellWidthPx:  8,
			CellHeightPx: 16,
		},
	}
}

// newTestModel returns a sized model driven by a fake clock.
func newTestModel(t *testing.T, opts Options) (Model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	m := New(opts, WithClock(clock))
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, clock
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// cellXY returns a screen coordinate inside the cell at p.
func cellXY(m Model, p Position) (x, y int) {
	return timeColWidth + (p.Col-m.grid.Left)*colWidth + 2, headerLines + p.Row - m.grid.Top
}

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func press(m Model, p Position) tea.MouseMsg {
	x, y := cellXY(m, p)
	return mouse(tea.MouseActionPress, tea.MouseButtonLeft, x, y)
}

func motion(m Model, p Position) tea.MouseMsg {
	x, y := cellXY(m, p)
	return mouse(tea.MouseActionMotion, tea.MouseButtonLeft, x, y)
}

func release(m Model, p Position) tea.MouseMsg {
	x, y := cellXY(m, p)
	return mouse(tea.MouseActionRelease, tea.MouseButtonNone, x, y)
}

func othersOverlay() aggregate.Result {
	return aggregate.Compute(testOptions().Candidates, []aggregate.Response{
		{ParticipantName: "Ben", Blocks: []slot.Block{{Date: "2025-11-05", Start: "10:00", End: "11:00"}}},
		{ParticipantName: "Chie", Blocks: []slot.Block{{Date: "2025-11-05", Start: "10:30", End: "11:00"}}},
	})
}

func recordSubmit(got *[]slot.Block, gotName *string) commands.SubmitFunc {
	return func(_ context.Context, name string, blocks []slot.Block) (string, error) {
		*gotName = name
		*got = blocks
		return "saved, edit code abc12345", nil
	}
}

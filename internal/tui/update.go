package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/awase/internal/config"
	"github.com/javiermolinar/awase/internal/gesture"
	"github.com/javiermolinar/awase/internal/logger"
	"github.com/javiermolinar/awase/internal/selection"
	"github.com/javiermolinar/awase/internal/slot"
	"github.com/javiermolinar/awase/internal/tui/commands"
)

const (
	statusTTL = 3 * time.Second
	errorTTL  = 5 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.grid.Resize(msg.Width, msg.Height)
		m.grid.EnsureVisible(m.cursor)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		if m.inputMode() == config.InputTouch {
			m.handleTouch(msg)
		} else {
			m.handlePointer(msg)
		}
		return m, m.takePulse()

	case tea.BlurMsg:
		m.cancelGestures()
		return m, nil

	case commands.TimerFiredMsg:
		msg.Fire()
		return m, m.takePulse()

	case commands.PulseDoneMsg:
		m.pulsing = false
		return m, nil

	case commands.SubmittedMsg:
		m.submitting = false
		m.s.store.MarkSaved()
		m.outcome = Outcome{
			Submitted: true,
			Name:      strings.TrimSpace(m.name.Value()),
			Blocks:    m.s.store.Blocks(),
			Message:   msg.Message,
		}
		return m, tea.Quit

	case commands.OverlayLoadedMsg:
		m.setOverlay(msg.Result)
		return m.setStatus("Availability refreshed", false)

	case commands.ErrMsg:
		m.submitting = false
		logger.Warn("tui error", "err", msg.Err)
		return m.setStatus(fmt.Sprintf("Error: %v", msg.Err), true)

	case commands.StatusMsgCmd:
		return m.setStatus(msg.Msg, false)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	if m.focus == FocusName {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.focus == FocusName {
		return m.handleNameKeys(msg)
	}
	return m.handleGridKeys(msg)
}

func (m Model) handleNameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "esc":
		m.focus = FocusGrid
		m.name.Blur()
		return m, nil
	case "enter":
		m.focus = FocusGrid
		m.name.Blur()
		return m.submit()
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m Model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	quitArmed := m.confirmQuit
	m.confirmQuit = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.s.pointer.State() != gesture.StateIdle || m.s.touch.State() != gesture.StateIdle {
			m.cancelGestures()
			return m, nil
		}
		if m.s.store.HasChanges() && !quitArmed {
			m.confirmQuit = true
			return m.setStatus("Unsaved changes. Press q again to discard.", true)
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)

	case key.Matches(msg, m.keys.Toggle):
		s, ok := m.grid.Slot(m.cursor)
		if !ok || !m.grid.Active(s) {
			return m.setStatus("Not a candidate time", true)
		}
		m.s.store.Toggle(s)

	case key.Matches(msg, m.keys.Undo):
		if err := m.s.store.Undo(); errors.Is(err, selection.ErrNothingToUndo) {
			return m.setStatus("Nothing to undo", false)
		}

	case key.Matches(msg, m.keys.Clear):
		if m.s.store.Selection().Len() > 0 {
			_ = m.s.store.Dispatch(selection.Clear())
		}

	case key.Matches(msg, m.keys.Focus):
		if m.opts.NameLocked {
			return m.setStatus("Name is fixed when editing", false)
		}
		m.focus = FocusName
		return m, m.name.Focus()

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case msg.String() == "r":
		return m, commands.LoadOverlay(m.opts.Refresh)
	}
	return m, nil
}

func (m *Model) moveCursor(dCol, dRow int) {
	m.cursor.Col = min(max(m.cursor.Col+dCol, 0), max(len(m.grid.Dates)-1, 0))
	m.cursor.Row = min(max(m.cursor.Row+dRow, 0), max(len(m.grid.Times)-1, 0))
	m.grid.EnsureVisible(m.cursor)
}

// submit validates the form and hands the response to the submit func.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	name := strings.TrimSpace(m.name.Value())
	if name == "" {
		m.focus = FocusName
		cmd := m.name.Focus()
		next, status := m.setStatus("Enter your name first", true)
		return next, tea.Batch(cmd, status)
	}
	blocks := m.s.store.Blocks()
	if len(blocks) == 0 {
		return m.setStatus("Select at least one slot", true)
	}
	m.submitting = true
	m.statusMsg = "Saving..."
	m.statusErr = false
	return m, commands.Submit(m.opts.Submit, name, blocks)
}

// handlePointer drives the pointer machine from mouse events.
func (m *Model) handlePointer(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.grid.ScrollBy(-1)
			return
		case tea.MouseButtonWheelDown:
			m.grid.ScrollBy(1)
			return
		}
		s, ok := m.grid.SlotAt(msg.X, msg.Y)
		if !ok {
			return
		}
		if m.s.pointer.Press(pointerButton(msg.Button), s) {
			m.focusSlot(s)
		}
	case tea.MouseActionMotion:
		if !m.s.pointer.Dragging() {
			return
		}
		if s, ok := m.grid.SlotAt(msg.X, msg.Y); ok {
			m.s.pointer.Enter(s)
			m.focusSlot(s)
		}
	case tea.MouseActionRelease:
		m.s.pointer.Release()
	}
}

func pointerButton(b tea.MouseButton) gesture.Button {
	switch b {
	case tea.MouseButtonMiddle:
		return gesture.ButtonMiddle
	case tea.MouseButtonRight:
		return gesture.ButtonSecondary
	default:
		return gesture.ButtonPrimary
	}
}

// handleTouch emulates a touchscreen: the mouse stands in for one finger,
// with cell coordinates scaled to pixels.
func (m *Model) handleTouch(msg tea.MouseMsg) {
	w, h := m.cellPx()
	pt := gesture.Point{X: float64(msg.X) * w, Y: float64(msg.Y) * h}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		s, ok := m.grid.SlotAt(msg.X, msg.Y)
		if !ok {
			return
		}
		m.s.lastY = msg.Y
		m.s.touch.Start(s, pt)
		m.focusSlot(s)
	case tea.MouseActionMotion:
		s, onSlot := m.grid.SlotAt(msg.X, msg.Y)
		if m.s.touch.Move(s, onSlot, pt) {
			if onSlot {
				m.focusSlot(s)
			}
			return
		}
		if m.s.touch.State() == gesture.StateScrolling {
			m.grid.ScrollBy(m.s.lastY - msg.Y)
			m.s.lastY = msg.Y
		}
	case tea.MouseActionRelease:
		m.s.touch.End()
	}
}

func (m *Model) cancelGestures() {
	m.s.pointer.Cancel()
	m.s.touch.Cancel()
}

func (m *Model) focusSlot(s slot.Slot) {
	if p, ok := m.grid.Locate(s); ok {
		m.cursor = p
	}
}

// takePulse turns a pending haptic pulse into a status flash.
func (m *Model) takePulse() tea.Cmd {
	d, ok := m.s.pulse.take()
	if !ok {
		return nil
	}
	m.pulsing = true
	// Stretched so the flash survives a terminal repaint.
	return commands.EndPulseAfter(max(d*4, 200*time.Millisecond))
}

func (m Model) setStatus(msg string, isErr bool) (Model, tea.Cmd) {
	ttl := statusTTL
	if isErr {
		ttl = errorTTL
	}
	m.statusMsg = msg
	m.statusErr = isErr
	m.statusTime = time.Now().Add(ttl)
	return m, commands.ClearStatusAfter(ttl)
}

// Package tui provides the interactive availability editor.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/config"
	"github.com/javiermolinar/awase/internal/gesture"
	"github.com/javiermolinar/awase/internal/logger"
	"github.com/javiermolinar/awase/internal/selection"
	"github.com/javiermolinar/awase/internal/slot"
	"github.com/javiermolinar/awase/internal/tui/commands"
	"github.com/javiermolinar/awase/internal/tui/theme"
)

// Focus is the part of the editor receiving keys.
type Focus int

const (
	FocusGrid Focus = iota
	FocusName
)

// Options describes the response being edited.
type Options struct {
	Title      string
	Candidates []slot.CandidateRange
	Initial    []slot.Block     // existing availability when editing
	Name       string           // prefilled participant name
	NameLocked bool             // editing an existing response
	Overlay    aggregate.Result // everyone else's availability
	UI         config.UIConfig

	Submit  commands.SubmitFunc
	Refresh commands.OverlayFunc
}

// Outcome is what the editor produced when it exited.
type Outcome struct {
	Submitted bool
	Name      string
	Blocks    []slot.Block
	Message   string
}

// session holds the mutable editor state shared by every copy of Model.
type session struct {
	store   *selection.Store
	pointer *gesture.Pointer
	touch   *gesture.Touch
	pulse   *pulse

	// lastY is the previous touch row while scrolling.
	lastY int
}

// Model is the main TUI model.
type Model struct {
	opts   Options
	styles *Styles
	keys   keyMap
	help   help.Model
	name   textinput.Model

	grid   *Grid
	cursor Position
	focus  Focus
	s      *session

	overlay aggregate.Result
	counts  map[slot.Slot]int

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg   string
	statusErr   bool
	statusTime  time.Time
	pulsing     bool
	confirmQuit bool
	submitting  bool

	outcome Outcome
}

// ModelOption configures optional model behavior.
type ModelOption func(*modelConfig)

type modelConfig struct {
	clock gesture.Clock
}

// WithClock sets the clock driving the touch long-press timer.
func WithClock(c gesture.Clock) ModelOption {
	return func(mc *modelConfig) { mc.clock = c }
}

// New creates a new TUI model.
func New(opts Options, modelOpts ...ModelOption) Model {
	var mc modelConfig
	for _, o := range modelOpts {
		o(&mc)
	}

	t, err := theme.Load(opts.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	name := textinput.New()
	name.Placeholder = "Your name"
	name.Prompt = "name: "
	name.CharLimit = 64
	name.Width = 32
	name.SetValue(opts.Name)
	name.PromptStyle = styles.InputPromptStyle
	name.TextStyle = styles.InputTextStyle
	name.PlaceholderStyle = styles.PlaceholderStyle

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.ShortSeparator = styles.HelpSepStyle

	s := &session{store: selection.NewStore(), pulse: &pulse{}}
	s.store.Load(opts.Initial)

	logTransition := func(from, to gesture.State) {
		logger.Debug("gesture transition", "from", from, "to", to)
	}
	s.pointer = gesture.NewPointer(s.store)
	s.pointer.OnTransition(logTransition)

	touchOpts := []gesture.TouchOption{
		gesture.WithHaptic(s.pulse),
		gesture.WithTransitionHook(logTransition),
	}
	if mc.clock != nil {
		touchOpts = append(touchOpts, gesture.WithClock(mc.clock))
	}
	s.touch = gesture.NewTouch(s.store, touchOpts...)

	m := Model{
		opts:   opts,
		styles: styles,
		keys:   defaultKeyMap(),
		help:   h,
		name:   name,
		grid:   NewGrid(opts.Candidates),
		s:      s,
	}
	m.setOverlay(opts.Overlay)
	m.cursor = m.firstActive()

	if opts.Name == "" && !opts.NameLocked {
		m.focus = FocusName
		m.name.Focus()
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.focus == FocusName {
		return textinput.Blink
	}
	return nil
}

// Run starts the editor and returns what the user submitted.
func Run(opts Options) (Outcome, error) {
	ref := &programRef{}
	model := New(opts, WithClock(teaClock{ref: ref}))

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	ref.attach(p)

	final, err := p.Run()
	if err != nil {
		return Outcome{}, err
	}
	if fm, ok := final.(Model); ok {
		return fm.outcome, nil
	}
	return Outcome{}, nil
}

func (m *Model) setOverlay(res aggregate.Result) {
	m.overlay = res
	m.counts = res.Counts()
}

// firstActive returns the position of the first selectable slot.
func (m Model) firstActive() Position {
	for row := range m.grid.Times {
		for col := range m.grid.Dates {
			p := Position{Col: col, Row: row}
			if s, ok := m.grid.Slot(p); ok && m.grid.Active(s) {
				return p
			}
		}
	}
	return Position{}
}

// inputMode returns the configured input emulation.
func (m Model) inputMode() string {
	if m.opts.UI.Input == config.InputTouch {
		return config.InputTouch
	}
	return config.InputPointer
}

// cellPx returns the pixel size of one terminal cell for touch emulation.
func (m Model) cellPx() (w, h float64) {
	w, h = float64(m.opts.UI.CellWidthPx), float64(m.opts.UI.CellHeightPx)
	if w <= 0 {
		w = 8
	}
	if h <= 0 {
		h = 16
	}
	return w, h
}

// Selection returns the current selection, for tests and callers.
func (m Model) Selection() selection.Selection {
	return m.s.store.Selection()
}

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/config"
	"github.com/javiermolinar/awase/internal/gesture"
	"github.com/javiermolinar/awase/internal/slot"
)

const (
	selectedMark = "✓"
	bestMark     = "★"
	inertMark    = "·"
	ellipsis     = "…"
)

// View renders the editor.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.width < timeColWidth+colWidth || m.height < headerLines+footerLines+1 {
		return "Terminal too small"
	}
	if len(m.grid.Dates) == 0 {
		return "No candidate times"
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTitle(), m.renderName(), m.renderDateHeader())
	lines = append(lines, m.renderRows()...)
	for len(lines) < m.height-footerLines {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderStatus(), m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m Model) renderTitle() string {
	title := m.styles.TitleStyle.Render(ansi.Truncate(m.opts.Title, m.width/2, ellipsis))

	var info []string
	switch n := m.overlay.TotalParticipants; n {
	case 0:
		info = append(info, "no responses yet")
	case 1:
		info = append(info, "1 response")
	default:
		info = append(info, fmt.Sprintf("%d responses", n))
	}
	if m.s.store.HasChanges() {
		info = append(info, m.styles.DirtyStyle.Render("unsaved"))
	}
	line := title + "  " + m.styles.LabelStyle.Render(strings.Join(info, " · "))
	return ansi.Truncate(line, m.width, ellipsis)
}

func (m Model) renderName() string {
	if m.opts.NameLocked {
		return m.styles.InputPromptStyle.Render("name: ") + m.styles.InputTextStyle.Render(m.name.Value()) +
			m.styles.LabelStyle.Render("  (editing)")
	}
	return m.name.View()
}

func (m Model) renderDateHeader() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", timeColWidth))
	from, to := m.grid.VisibleCols()
	for col := from; col < to; col++ {
		if col > from {
			sb.WriteString(strings.Repeat(" ", colGap))
		}
		sb.WriteString(m.styles.DateHeaderStyle.Render(dateLabel(m.grid.Dates[col])))
	}
	return sb.String()
}

// dateLabel renders "2025-11-05" as "Wed 05".
func dateLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ansi.Truncate(date, cellWidth, "")
	}
	return t.Format("Mon 02")
}

func (m Model) renderRows() []string {
	rowFrom, rowTo := m.grid.VisibleRows()
	colFrom, colTo := m.grid.VisibleCols()

	lines := make([]string, 0, rowTo-rowFrom)
	for row := rowFrom; row < rowTo; row++ {
		var sb strings.Builder
		label := m.grid.Times[row]
		if !strings.HasSuffix(label, ":00") {
			label = ""
		}
		sb.WriteString(m.styles.TimeColumnStyle.Render(label))
		for col := colFrom; col < colTo; col++ {
			if col > colFrom {
				sb.WriteString(strings.Repeat(" ", colGap))
			}
			sb.WriteString(m.renderCell(Position{Col: col, Row: row}))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func (m Model) renderCell(p Position) string {
	s, _ := m.grid.Slot(p)
	var style lipgloss.Style
	var text string

	switch {
	case !m.grid.Active(s):
		style, text = m.styles.InertCellStyle, inertMark
	case m.s.store.IsSelected(s):
		style, text = m.styles.SelectedCellStyle, selectedMark
		if n := m.counts[s]; n > 0 {
			text += " " + strconv.Itoa(n)
		}
	default:
		n := m.counts[s]
		style = m.styles.HeatCell(aggregate.HeatLevel(n, m.dateMax(s.Date)))
		if n > 0 {
			text = strconv.Itoa(n)
		}
		if m.overlay.IsBest(s) {
			text += bestMark
		}
	}

	if p == m.cursor {
		style = style.Inherit(m.styles.CursorStyle)
		if text == "" {
			text = "_"
		}
	}
	return style.Render(text)
}

func (m Model) dateMax(date string) int {
	for _, d := range m.overlay.Dates {
		if d.Date == date {
			return d.MaxCount
		}
	}
	return 0
}

func (m Model) renderStatus() string {
	var line string
	switch {
	case m.pulsing:
		line = m.styles.PulseStyle.Render(" selecting ")
	case m.statusMsg != "" && m.statusErr:
		line = m.styles.ErrorStyle.Render(m.statusMsg)
	case m.statusMsg != "":
		line = m.styles.StatusStyle.Render(m.statusMsg)
	default:
		line = m.styles.StatusStyle.Render(m.cursorInfo())
	}
	return ansi.Truncate(line, m.width, ellipsis)
}

// cursorInfo describes the slot under the cursor and the current gesture.
func (m Model) cursorInfo() string {
	s, ok := m.grid.Slot(m.cursor)
	if !ok {
		return ""
	}

	parts := []string{fmt.Sprintf("%s %s-%s", dateLabel(s.Date), s.Time, slot.Next(s.Time))}
	if !m.grid.Active(s) {
		parts = append(parts, "not a candidate")
	} else if ss, ok := m.overlay.Lookup(s); ok && ss.Count > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d: %s", ss.Count, m.overlay.TotalParticipants, strings.Join(ss.Names, ", ")))
	}

	if n := m.s.store.Selection().Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if st := m.gestureState(); st != gesture.StateIdle {
		parts = append(parts, st.String())
	}
	return strings.Join(parts, " · ")
}

func (m Model) gestureState() gesture.State {
	if m.inputMode() == config.InputTouch {
		return m.s.touch.State()
	}
	return m.s.pointer.State()
}

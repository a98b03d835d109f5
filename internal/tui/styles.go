package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/awase/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	TitleStyle      lipgloss.Style
	LabelStyle      lipgloss.Style
	DateHeaderStyle lipgloss.Style
	TimeColumnStyle lipgloss.Style

	// Cells
	InertCellStyle    lipgloss.Style
	SelectedCellStyle lipgloss.Style
	HeatCellStyles    [theme.HeatLevels]lipgloss.Style
	CursorStyle       lipgloss.Style
	BestMarkStyle     lipgloss.Style

	// Footer
	StatusStyle      lipgloss.Style
	PulseStyle       lipgloss.Style
	ErrorStyle       lipgloss.Style
	DirtyStyle       lipgloss.Style
	HelpKeyStyle     lipgloss.Style
	HelpDescStyle    lipgloss.Style
	HelpSepStyle     lipgloss.Style
	InputTextStyle   lipgloss.Style
	InputPromptStyle lipgloss.Style
	PlaceholderStyle lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	cell := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)

	s := &Styles{
		palette: p,

		TitleStyle:      lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		LabelStyle:      lipgloss.NewStyle().Foreground(p.FgMuted),
		DateHeaderStyle: lipgloss.NewStyle().Foreground(p.Accent).Width(cellWidth).Align(lipgloss.Center),
		TimeColumnStyle: lipgloss.NewStyle().Foreground(p.FgMuted).Width(timeColWidth),

		InertCellStyle:    cell.Foreground(p.FgMuted),
		SelectedCellStyle: cell.Background(p.Selected).Foreground(p.TextOnSelected).Bold(true),
		CursorStyle:       lipgloss.NewStyle().Underline(true).Bold(true),
		BestMarkStyle:     lipgloss.NewStyle().Foreground(p.Best),

		StatusStyle:      lipgloss.NewStyle().Foreground(p.Fg),
		PulseStyle:       lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Bold(true),
		ErrorStyle:       lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		DirtyStyle:       lipgloss.NewStyle().Foreground(p.Warning),
		HelpKeyStyle:     lipgloss.NewStyle().Foreground(p.Fg),
		HelpDescStyle:    lipgloss.NewStyle().Foreground(p.FgMuted),
		HelpSepStyle:     lipgloss.NewStyle().Foreground(p.BgSelection),
		InputTextStyle:   lipgloss.NewStyle().Foreground(p.Fg),
		InputPromptStyle: lipgloss.NewStyle().Foreground(p.Accent),
		PlaceholderStyle: lipgloss.NewStyle().Foreground(p.FgMuted),
	}

	for level := range theme.HeatLevels {
		s.HeatCellStyles[level] = cell.Background(p.Heat[level]).Foreground(p.TextOnHeat[level])
	}
	return s
}

// HeatCell returns the style for an unselected active cell at level.
func (s *Styles) HeatCell(level int) lipgloss.Style {
	level = min(max(level, 0), theme.HeatLevels-1)
	return s.HeatCellStyles[level]
}

package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/awase/internal/aggregate"
)

// Color definitions for consistent styling across the UI.
var (
	// Best slots: bold yellow so the winners pop
	colorBest = color.New(color.FgYellow, color.Bold)

	// Advice from the LLM
	colorAdvice = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Codes and links the user has to keep
	colorSecret = color.New(color.FgGreen, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Heat levels, coldest first.
	heatColors = [...]*color.Color{
		color.New(color.FgWhite, color.Faint),
		color.New(color.FgGreen, color.Faint),
		color.New(color.FgGreen),
		color.New(color.FgHiGreen),
		color.New(color.BgGreen, color.FgBlack),
		color.New(color.BgHiGreen, color.FgBlack, color.Bold),
	}
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatBest formats text for a best slot.
func formatBest(s string) string {
	return colorBest.Sprint(s)
}

// formatAdvice formats text for LLM output.
func formatAdvice(s string) string {
	return colorAdvice.Sprint(s)
}

// formatSecret formats an edit code or share link.
func formatSecret(s string) string {
	return colorSecret.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatHeat colors a heatmap cell for count relative to maxCount.
func formatHeat(s string, count, maxCount int) string {
	level := min(max(aggregate.HeatLevel(count, maxCount), 0), len(heatColors)-1)
	return heatColors[level].Sprint(s)
}

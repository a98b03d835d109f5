package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewPalette_HeatShades(t *testing.T) {
	base := &Theme{
		Bg:          "#000000",
		BgHighlight: "#202020",
		Fg:          "#ffffff",
		Accent:      "#ff00ff",
		Selected:    "#00ff00",
		Heat:        "#ff8000",
	}

	p := NewPalette(base)

	if p.Heat[0] != lipgloss.Color("#202020") {
		t.Errorf("Heat[0] = %q, want the empty-cell background", p.Heat[0])
	}
	// Each level moves closer to the heat color.
	prev := contrastRatio(string(p.Heat[0]), base.Heat)
	for level := 1; level < HeatLevels; level++ {
		c := contrastRatio(string(p.Heat[level]), base.Heat)
		if c > prev {
			t.Errorf("Heat[%d] = %q is further from heat than level %d", level, p.Heat[level], level-1)
		}
		prev = c
	}
	if p.TextOnSelected != lipgloss.Color("#000000") {
		t.Errorf("TextOnSelected = %q, want dark text on bright green", p.TextOnSelected)
	}
}

func TestNewPalette_NilTheme(t *testing.T) {
	p := NewPalette(nil)
	if p.Bg == "" {
		t.Error("nil theme should fall back to mocha")
	}
}

func TestBlendColors(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		ratio float64
		want  string
	}{
		{"all a", "#ff0000", "#0000ff", 0, "#ff0000"},
		{"all b", "#ff0000", "#0000ff", 1, "#0000ff"},
		{"half", "#ff0000", "#0000ff", 0.5, "#7f007f"},
		{"clamped", "#ff0000", "#0000ff", 2, "#0000ff"},
		{"invalid keeps a", "red", "#0000ff", 0.5, "red"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blendColors(tt.a, tt.b, tt.ratio); got != tt.want {
				t.Errorf("blendColors() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChooseTextColor(t *testing.T) {
	if got := chooseTextColor("#ffffff", "#eeeeee", "#111111"); got != "#111111" {
		t.Errorf("on white got %q, want dark", got)
	}
	if got := chooseTextColor("#000000", "#eeeeee", "#111111"); got != "#eeeeee" {
		t.Errorf("on black got %q, want light", got)
	}
}

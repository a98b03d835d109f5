package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// HeatLevels is the number of overlay shades, level 0 included.
const HeatLevels = 6

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Selected    lipgloss.Color
	Best        lipgloss.Color
	Warning     lipgloss.Color

	// Heat[0] is an empty candidate cell; Heat[5] the busiest.
	Heat       [HeatLevels]lipgloss.Color
	TextOnHeat [HeatLevels]lipgloss.Color

	TextOnAccent   lipgloss.Color
	TextOnSelected lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	p := &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Selected:    lipgloss.Color(t.Selected),
		Best:        lipgloss.Color(t.Best),
		Warning:     lipgloss.Color(t.Warning),

		TextOnAccent:   lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnSelected: lipgloss.Color(chooseTextColor(t.Selected, t.Bg, t.Fg)),
	}

	for level := range HeatLevels {
		hex := heatShade(t.Heat, t.BgHighlight, level)
		p.Heat[level] = lipgloss.Color(hex)
		p.TextOnHeat[level] = lipgloss.Color(chooseTextColor(hex, t.Fg, t.Bg))
	}
	return p
}

// heatShade mixes the heat color into the empty-cell background, from none
// at level 0 to mostly heat at the top level.
func heatShade(heat, bg string, level int) string {
	if level <= 0 {
		return bg
	}
	return blendColors(heat, bg, 0.8-0.16*float64(level-1))
}

// parseHex parses a 2-character hex string into an integer.
func parseHex(s string, v *int) {
	var val int
	for i := 0; i < len(s); i++ {
		val *= 16
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	*v = val
}

func parseRGB(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	parseHex(hex[1:3], &r)
	parseHex(hex[3:5], &g)
	parseHex(hex[5:7], &b)
	return r, g, b, true
}

// formatHexColor formats RGB values as a hex color string.
func formatHexColor(r, g, b int) string {
	const hex = "0123456789abcdef"
	return string([]byte{'#', hex[r>>4], hex[r&0xf], hex[g>>4], hex[g&0xf], hex[b>>4], hex[b&0xf]})
}

// chooseTextColor picks whichever of light and dark reads better on bg.
func chooseTextColor(bg, light, dark string) string {
	if contrastRatio(bg, light) >= contrastRatio(bg, dark) {
		return light
	}
	return dark
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	r, g, b, ok := parseRGB(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

func srgbToLinear(c int) float64 {
	v := float64(c) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// blendColors mixes a toward b; ratio 0 is a, 1 is b.
func blendColors(a, b string, ratio float64) string {
	ar, ag, ab, okA := parseRGB(a)
	br, bg, bb, okB := parseRGB(b)
	if !okA || !okB {
		return a
	}
	ratio = min(max(ratio, 0), 1)

	mix := func(x, y int) int {
		return int(float64(x)*(1-ratio) + float64(y)*ratio)
	}
	return formatHexColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}

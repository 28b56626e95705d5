package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Available   lipgloss.Color
	Maybe       lipgloss.Color
	Empty       lipgloss.Color
	Warning     lipgloss.Color

	TextOnAccent    lipgloss.Color
	TextOnAvailable lipgloss.Color
	TextOnMaybe     lipgloss.Color
	TextOnEmpty     lipgloss.Color

	// IsLight is set for themes with a light background.
	IsLight bool

	fg, bg string
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Available:   lipgloss.Color(t.Available),
		Maybe:       lipgloss.Color(t.Maybe),
		Empty:       lipgloss.Color(t.Empty),
		Warning:     lipgloss.Color(t.Warning),

		TextOnAccent:    lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnAvailable: lipgloss.Color(chooseTextColor(t.Available, t.Bg, t.Fg)),
		TextOnMaybe:     lipgloss.Color(chooseTextColor(t.Maybe, t.Bg, t.Fg)),
		TextOnEmpty:     lipgloss.Color(chooseTextColor(t.Empty, t.Bg, t.Fg)),

		IsLight: isLightTheme(t.Bg),

		fg: t.Fg,
		bg: t.Bg,
	}
}

// TextOn returns the theme foreground or background color, whichever reads
// better on the given cell color.
func (p *Palette) TextOn(hex string) lipgloss.Color {
	return lipgloss.Color(chooseTextColor(hex, p.bg, p.fg))
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

func chooseTextColor(bg, lightText, darkText string) string {
	lightContrast := contrastRatio(bg, lightText)
	darkContrast := contrastRatio(bg, darkText)
	if lightContrast >= darkContrast {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance follows WCAG 2.x. Unparseable colors count as black.
func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*clamp01(r) + 0.7152*clamp01(g) + 0.0722*clamp01(b)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Available answers: green
	colorAvailable = color.New(color.FgGreen, color.Bold)

	// Maybe answers: yellow
	colorMaybe = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Event status and ids: cyan
	colorAccent = color.New(color.FgCyan)

	// Problems the user should read
	colorWarn = color.New(color.FgRed)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
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

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatAvailable(s string) string {
	return colorAvailable.Sprint(s)
}

func formatMaybe(s string) string {
	return colorMaybe.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatAccent(s string) string {
	return colorAccent.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatCell paints s on a true-colour background. Invalid colours and
// disabled colour output leave s unchanged.
func formatCell(s, bgHex, fgHex string) string {
	if color.NoColor {
		return s
	}
	bg, err := colorful.Hex(bgHex)
	if err != nil {
		return s
	}
	c := color.BgRGB(rgb(bg))
	if fg, err := colorful.Hex(fgHex); err == nil {
		c.AddRGB(rgb(fg))
	}
	return c.Sprint(s)
}

func rgb(c colorful.Color) (r, g, b int) {
	r8, g8, b8 := c.RGB255()
	return int(r8), int(g8), int(b8)
}

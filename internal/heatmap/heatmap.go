// Package heatmap maps aggregated slot counts to display colours.
package heatmap

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/javiermolinar/freetogether/internal/availability"
)

// MinAlpha is the opacity floor for a slot with at least one answer.
const MinAlpha = 0.3

// Category is the colour family of a cell.
type Category int

const (
	CategoryNone Category = iota
	CategoryAvailable
	CategoryMaybe
)

func (c Category) String() string {
	switch c {
	case CategoryAvailable:
		return "available"
	case CategoryMaybe:
		return "maybe"
	default:
		return "none"
	}
}

// Cell is the rendered intensity of one slot.
type Cell struct {
	Category Category
	Alpha    float64
}

// Shade picks the cell colour family and opacity. Any available answer wins
// over maybe answers.
func Shade(available, maybe, maxAvailable, maxMaybe int) Cell {
	switch {
	case available > 0:
		return Cell{Category: CategoryAvailable, Alpha: alpha(available, maxAvailable)}
	case maybe > 0:
		return Cell{Category: CategoryMaybe, Alpha: alpha(maybe, maxMaybe)}
	default:
		return Cell{Category: CategoryNone}
	}
}

// ShadeSlot shades an aggregate against the summary maxima.
func ShadeSlot(a availability.SlotAggregate, s availability.Summary) Cell {
	return Shade(a.AvailableCount, a.MaybeCount, s.MaxAvailable, s.MaxMaybe)
}

func alpha(c, m int) float64 {
	a := float64(c) / float64(max(m, 1))
	return min(max(a, MinAlpha), 1)
}

// Palette holds the colours cells are drawn with, as #rrggbb.
type Palette struct {
	Available  string
	Maybe      string
	Empty      string
	Background string
}

// DarkPalette is used on dark terminals.
func DarkPalette() Palette {
	return Palette{
		Available:  "#1db954",
		Maybe:      "#ff9800",
		Empty:      "#2c2c2c",
		Background: "#121212",
	}
}

// LightPalette is used on light terminals.
func LightPalette() Palette {
	return Palette{
		Available:  "#1db954",
		Maybe:      "#ff9800",
		Empty:      "#f5f5f5",
		Background: "#ffffff",
	}
}

// Validate checks that every colour parses.
func (p Palette) Validate() error {
	for name, hex := range map[string]string{
		"available":  p.Available,
		"maybe":      p.Maybe,
		"empty":      p.Empty,
		"background": p.Background,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%s colour %q: %w", name, hex, err)
		}
	}
	return nil
}

// Hex returns the opaque colour for c: the category colour laid over the
// background at the cell's alpha.
func (p Palette) Hex(c Cell) string {
	var base string
	switch c.Category {
	case CategoryAvailable:
		base = p.Available
	case CategoryMaybe:
		base = p.Maybe
	default:
		return p.Empty
	}
	fg, err := colorful.Hex(base)
	if err != nil {
		return base
	}
	bg, err := colorful.Hex(p.Background)
	if err != nil {
		return base
	}
	return bg.BlendRgb(fg, c.Alpha).Clamped().Hex()
}

package heatmap

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/javiermolinar/freetogether/internal/availability"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// WriteHTML renders the summary as a standalone interactive heatmap page.
// Maybe-only cells are plotted as negative values so one colour scale can
// run from maybe through empty to available.
func WriteHTML(w io.Writer, s availability.Summary, title string, p Palette) error {
	days := make([]string, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, d.Entry.DisplayName)
	}
	hours := make([]string, 0, slot.HoursPerDay)
	for h := 0; h < slot.HoursPerDay; h++ {
		hours = append(hours, slot.HourLabel(h))
	}

	data := make([]opts.HeatMapData, 0, len(s.Days)*slot.HoursPerDay)
	for x, d := range s.Days {
		for _, a := range d.Slots {
			v := a.AvailableCount
			if v == 0 {
				v = -a.MaybeCount
			}
			data = append(data, opts.HeatMapData{
				Name:  string(a.Slot),
				Value: [3]interface{}{x, a.Hour, v},
			})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1000px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d responses, best slot %d available", len(s.Responses), s.MaxAvailable),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: days}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: hours}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(-max(s.MaxMaybe, 1)),
			Max:        float32(max(s.MaxAvailable, 1)),
			Text:       []string{"available", "maybe"},
			InRange: &opts.VisualMapInRange{
				Color: []string{p.Maybe, p.Empty, p.Available},
			},
		}),
	)
	hm.AddSeries("availability", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("rendering heatmap: %w", err)
	}
	return nil
}

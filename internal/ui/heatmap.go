package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/freetogether/internal/app"
	"github.com/javiermolinar/freetogether/internal/heatmap"
	"github.com/javiermolinar/freetogether/internal/tui/theme"
	"github.com/javiermolinar/freetogether/internal/tui/view"
)

func (a *App) heatmapCmd() *cobra.Command {
	var (
		htmlPath string
		copyBest bool
		noColor  bool
		asJSON   bool
		best     int
	)

	cmd := &cobra.Command{
		Use:   "heatmap ID",
		Short: "Show when everyone is free",
		Long: `Print the group availability heatmap for an event.

Cells show how many people are available. "?n" means only n maybes.
Rows cover business hours plus any hour somebody answered.`,
		Example: `  freetogether heatmap 5f0c...
  freetogether heatmap 5f0c... --html=team-sync.html
  freetogether heatmap 5f0c... --best=3 --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			svc, email, err := a.session()
			if err != nil {
				return err
			}
			ctx, cancel := a.storeContext()
			defer cancel()

			v, err := svc.Load(ctx, args[0], email)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(v.Summary.Payload())
			}
			if v.SummaryErr != nil {
				fmt.Fprintln(w, formatWarn("No data yet: "+v.SummaryErr.Error()))
				return nil
			}

			t, err := theme.Load(a.config.UI.Theme)
			if err != nil {
				return err
			}

			if htmlPath != "" {
				return writeHeatmapHTML(w, htmlPath, v, t.Heatmap())
			}

			fmt.Fprintf(w, "%s  %s\n\n", formatHeader(v.Event.Name), formatMuted(v.Range.String()))
			if !v.Summary.HasData() {
				fmt.Fprintln(w, formatMuted("No responses yet"))
				return nil
			}

			palette := theme.NewPalette(t)
			bizFrom, bizTo := a.config.Hours.BusinessBand()
			from, to := hourSpan(v.Summary, bizFrom, bizTo)
			renderHeatmap(w, v.Summary, heatmapOptions{
				Palette:  t.Heatmap(),
				TextOn:   func(hex string) string { return string(palette.TextOn(hex)) },
				ColWidth: columnWidth(termWidth(), len(v.Summary.Days)),
				From:     from,
				To:       to,
			})

			lines := view.BestTimes(v.Summary, v.Range.Entries(), best)
			if len(lines) > 0 {
				fmt.Fprintf(w, "\n%s\n", formatHeader("Best times"))
				for _, l := range lines {
					fmt.Fprintln(w, "  "+l)
				}
			}
			if copyBest {
				if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(w, formatMuted("Copied best times to clipboard"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&htmlPath, "html", "", "Write an interactive HTML heatmap to this file")
	cmd.Flags().BoolVar(&copyBest, "copy", false, "Copy the best times to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured cells")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the aggregated heatmap as JSON")
	cmd.Flags().IntVar(&best, "best", 5, "How many best times to list")

	return cmd
}

func writeHeatmapHTML(w io.Writer, path string, v *app.EventView, p heatmap.Palette) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := heatmap.WriteHTML(f, v.Summary, v.Event.Name, p); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

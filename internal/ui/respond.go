package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/freetogether/internal/daterange"
	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/llm"
	"github.com/javiermolinar/freetogether/internal/selection"
	"github.com/javiermolinar/freetogether/internal/slot"
	"github.com/javiermolinar/freetogether/internal/tui"
)

// respondOptions are the non-interactive ways to build a response.
type respondOptions struct {
	available []string
	maybe     []string
	business  bool
	evening   bool
	describe  string
	keep      bool
	dryRun    bool
}

func (o respondOptions) interactive() bool {
	return len(o.available) == 0 && len(o.maybe) == 0 && !o.business && !o.evening && o.describe == ""
}

func (a *App) respondCmd() *cobra.Command {
	var opts respondOptions

	cmd := &cobra.Command{
		Use:   "respond ID",
		Short: "Mark when you are free for an event",
		Long: `Open the availability grid for an event and paint the hours you are free.

With flags the response is built and submitted without the grid. Flags
start from an empty selection (use --keep to start from your saved answer)
and are applied in order: --describe, then --available/--maybe keys, then
--business/--evening hours.

Slot keys look like monday_2025-06-02_9 (dated events) or monday_9.`,
		Example: `  freetogether respond 5f0c...
  freetogether respond 5f0c... --business
  freetogether respond 5f0c... --describe "weekday mornings, maybe Friday afternoon"
  freetogether respond 5f0c... --available=monday_2025-06-02_9,monday_2025-06-02_10 --maybe=tuesday_2025-06-03_15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, email, err := a.session()
			if err != nil {
				return err
			}
			if opts.interactive() {
				return tui.RunWithDebug(svc, a.config, args[0], a.debug)
			}

			loadCtx, cancelLoad := a.storeContext()
			v, err := svc.Load(loadCtx, args[0], email)
			cancelLoad()
			if err != nil {
				return err
			}
			if err := v.Event.CanRespond(email); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			m := selection.New(v.Range)
			if own := v.Own(); own != nil && opts.keep {
				m.Load(own.Available, own.Maybe)
			}
			if err := a.buildResponse(cmd.Context(), w, m, opts); err != nil {
				return err
			}

			avail, maybe := m.Available(), m.Maybe()
			printSelection(w, avail, maybe, v.Range.Entries())
			if opts.dryRun {
				fmt.Fprintln(w, formatMuted("(Dry run - response not saved)"))
				return nil
			}

			ctx, cancel := a.storeContext()
			defer cancel()
			r, err := svc.Submit(ctx, args[0], email, a.config.DisplayName(), avail, maybe)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Saved %d available and %d maybe slots for %s\n", len(r.Available), len(r.Maybe), v.Event.Name)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.available, "available", nil, "Slot keys you are available, comma separated")
	cmd.Flags().StringSliceVar(&opts.maybe, "maybe", nil, "Slot keys you might make, comma separated")
	cmd.Flags().BoolVar(&opts.business, "business", false, "Mark business hours on every day")
	cmd.Flags().BoolVar(&opts.evening, "evening", false, "Mark evening hours on every day")
	cmd.Flags().StringVar(&opts.describe, "describe", "", "Describe when you are free in your own words (uses the LLM)")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "Start from your saved response")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show the response without saving it")

	return cmd
}

// buildResponse applies the respond flags to m.
func (a *App) buildResponse(ctx context.Context, w io.Writer, m *selection.Machine, opts respondOptions) error {
	grid := m.Grid()

	if opts.describe != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		client, err := llm.NewClientFromConfig(a.config.LLM)
		if err != nil {
			return fmt.Errorf("creating LLM client: %w", err)
		}
		fmt.Fprintln(w, "Reading your description...")
		res, err := llm.NewInterpreter(client).Interpret(ctx, llm.InterpretRequest{
			Text:    opts.describe,
			Days:    grid.Entries(),
			Hours:   a.config.Hours,
			Compact: llm.IsLocal(a.config.LLM.Provider),
		})
		if err != nil {
			return err
		}
		m.Apply("describe", res.Available, res.Maybe)
		for _, n := range res.Notes {
			fmt.Fprintf(w, "  %s\n", formatMuted(n))
		}
		for _, p := range res.Problems {
			fmt.Fprintf(w, "  %s\n", formatWarn("skipped: "+p))
		}
	}

	if len(opts.available)+len(opts.maybe) > 0 {
		avail, err := parseKeys(grid, opts.available)
		if err != nil {
			return err
		}
		maybe, err := parseKeys(grid, opts.maybe)
		if err != nil {
			return err
		}
		m.Apply("keys", append(m.Available(), avail...), append(m.Maybe(), maybe...))
	}

	if opts.business {
		m.SelectHours(a.config.Hours.BusinessBand())
	}
	if opts.evening {
		m.SelectHours(a.config.Hours.EveningBand())
	}
	return nil
}

// parseKeys validates slot keys given on the command line.
func parseKeys(grid daterange.Range, raw []string) ([]slot.Key, error) {
	keys := make([]slot.Key, 0, len(raw))
	for _, s := range raw {
		k := slot.Key(strings.ToLower(strings.TrimSpace(s)))
		if k == "" {
			continue
		}
		if _, _, err := slot.Decode(k); err != nil {
			return nil, err
		}
		if !grid.Contains(k) {
			return nil, fmt.Errorf("%w: %s", event.ErrSlotOutsideGrid, k)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// printSelection lists the marked hours per day as runs, e.g.
// "Monday 2 June  9 AM-11 AM available".
func printSelection(w io.Writer, avail, maybe []slot.Key, days []daterange.Entry) {
	lines := append(hourRuns(avail, days, formatAvailable("available")), hourRuns(maybe, days, formatMaybe("maybe"))...)
	if len(lines) == 0 {
		fmt.Fprintln(w, formatMuted("No slots selected"))
		return
	}
	for _, l := range lines {
		fmt.Fprintln(w, "  "+l)
	}
}

// hourRuns groups keys into consecutive hour runs per day, in grid order.
func hourRuns(keys []slot.Key, days []daterange.Entry, label string) []string {
	byDay := make(map[string][]bool, len(days))
	for _, k := range keys {
		day, hour, err := slot.Decode(k)
		if err != nil {
			continue
		}
		if byDay[day] == nil {
			byDay[day] = make([]bool, slot.HoursPerDay)
		}
		byDay[day][hour] = true
	}

	var out []string
	for _, d := range days {
		hours := byDay[d.Key]
		for h := 0; h < len(hours); h++ {
			if !hours[h] {
				continue
			}
			end := h
			for end+1 < len(hours) && hours[end+1] {
				end++
			}
			span := slot.HourLabel(h)
			if end > h {
				span += "-" + slot.HourLabel(end)
			}
			out = append(out, fmt.Sprintf("%s  %s %s", d.DisplayName, span, label))
			h = end
		}
	}
	return out
}

package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/freetogether/internal/app"
	"github.com/javiermolinar/freetogether/internal/availability"
	"github.com/javiermolinar/freetogether/internal/dateutil"
	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// ErrBestNeedsDates is returned by schedule --best on a generic week event.
var ErrBestNeedsDates = errors.New("--best needs an event with dates; pass --date instead")

func (a *App) eventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Create and manage events",
	}
	cmd.AddCommand(
		a.eventCreateCmd(),
		a.eventListCmd(),
		a.eventShowCmd(),
		a.eventInviteCmd(),
		a.eventTransitionCmd("close", "Stop collecting responses", (*app.Service).Close),
		a.eventTransitionCmd("reopen", "Collect responses again", (*app.Service).Reopen),
		a.eventScheduleCmd(),
		a.eventDeleteCmd(),
	)
	return cmd
}

func (a *App) eventCreateCmd() *cobra.Command {
	var (
		start    string
		end      string
		typ      string
		timezone string
		invite   []string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new event",
		Long: `Create an event you own and optionally invite people.

Dates accept YYYY-MM-DD, today, tomorrow, a weekday or next-<weekday>.
Leave both dates empty for a generic Monday to Sunday week.`,
		Example: `  freetogether event create "Team sync" --start=2025-06-02 --end=2025-06-06 --invite=ana@example.com,bo@example.com
  freetogether event create "Weekly 1:1" --type=weekly`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, email, err := a.session()
			if err != nil {
				return err
			}

			now := time.Now()
			startDate, err := dateutil.Resolve(start, now)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endDate, err := dateutil.Resolve(end, now)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			ctx, cancel := a.storeContext()
			defer cancel()
			e, err := svc.Create(ctx, email, app.CreateRequest{
				Name:      args[0],
				Type:      typ,
				Timezone:  timezone,
				StartDate: startDate,
				EndDate:   endDate,
				Invitees:  invite,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Created event %s: %s\n", formatAccent(e.ID), e.Name)
			if len(e.Invitees) > 0 {
				fmt.Fprintf(w, "Invited %s\n", strings.Join(e.Invitees, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD or shorthand)")
	cmd.Flags().StringVar(&end, "end", "", "Last day (YYYY-MM-DD or shorthand)")
	cmd.Flags().StringVar(&typ, "type", "once", "Event type: once or weekly")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "IANA timezone, e.g. Europe/Madrid")
	cmd.Flags().StringSliceVar(&invite, "invite", nil, "Emails to invite, comma separated")

	return cmd
}

func (a *App) eventListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the events you own or are invited to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listEvents(cmd.OutOrStdout())
		},
	}
}

func (a *App) listEvents(w io.Writer) error {
	svc, email, err := a.session()
	if err != nil {
		return err
	}
	ctx, cancel := a.storeContext()
	defer cancel()

	events, err := svc.List(ctx, email)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "No events yet. Create one with: freetogether event create NAME")
		return nil
	}
	for _, e := range events {
		fmt.Fprintln(w, formatEventRow(e, email))
	}
	return nil
}

func (a *App) eventShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show an event, its invitees and who has answered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
				return enc.Encode(v.Descriptor())
			}
			printEventDetail(w, v)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the event descriptor as JSON")
	return cmd
}

func (a *App) eventInviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "invite ID EMAIL...",
		Short:   "Invite people to an event you own",
		Example: `  freetogether event invite 5f0c... ana@example.com bo@example.com,cy@example.com`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, email, err := a.session()
			if err != nil {
				return err
			}
			ctx, cancel := a.storeContext()
			defer cancel()

			added, err := svc.Invite(ctx, args[0], email, args[1:])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(added) == 0 {
				fmt.Fprintln(w, "Everyone was already invited")
				return nil
			}
			fmt.Fprintf(w, "Invited %s\n", strings.Join(added, ", "))
			return nil
		},
	}
}

type transitionFunc func(s *app.Service, ctx context.Context, id, actor string) (*event.Event, error)

func (a *App) eventTransitionCmd(use, short string, apply transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, email, err := a.session()
			if err != nil {
				return err
			}
			ctx, cancel := a.storeContext()
			defer cancel()

			e, err := apply(svc, ctx, args[0], email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", statusSymbol(e.Status), e.Name, e.Status)
			return nil
		},
	}
}

func (a *App) eventScheduleCmd() *cobra.Command {
	var (
		date string
		at   string
		best bool
	)

	cmd := &cobra.Command{
		Use:   "schedule ID",
		Short: "Fix the meeting date and time",
		Long: `Mark the event as scheduled for a date and time.

With --best the most available slot of the heatmap is used.`,
		Example: `  freetogether event schedule 5f0c... --date=2025-06-03 --time=10:00
  freetogether event schedule 5f0c... --best`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, email, err := a.session()
			if err != nil {
				return err
			}
			ctx, cancel := a.storeContext()
			defer cancel()

			if best {
				v, err := svc.Load(ctx, args[0], email)
				if err != nil {
					return err
				}
				date, at, err = bestSlot(v.Summary)
				if err != nil {
					return err
				}
			} else {
				if date, err = dateutil.Resolve(date, time.Now()); err != nil {
					return fmt.Errorf("--date: %w", err)
				}
			}

			e, err := svc.Schedule(ctx, args[0], email, date, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s scheduled for %s %s\n",
				statusSymbol(e.Status), e.Name, e.ScheduledDate, e.ScheduledTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Meeting date (YYYY-MM-DD or shorthand)")
	cmd.Flags().StringVar(&at, "time", "", "Meeting time (HH:MM)")
	cmd.Flags().BoolVar(&best, "best", false, "Use the most available slot")
	cmd.MarkFlagsMutuallyExclusive("best", "date")
	cmd.MarkFlagsMutuallyExclusive("best", "time")

	return cmd
}

// bestSlot returns the date and time of the most available slot.
func bestSlot(s availability.Summary) (date, at string, err error) {
	top := availability.Best(s, 1)
	if len(top) == 0 || top[0].AvailableCount == 0 {
		return "", "", errors.New("nobody is available yet")
	}
	dayKey, hour, err := slot.Decode(top[0].Slot)
	if err != nil {
		return "", "", err
	}
	day, err := slot.ParseDay(dayKey)
	if err != nil {
		return "", "", err
	}
	if !day.HasDate {
		return "", "", ErrBestNeedsDates
	}
	return day.Date.Format(dateutil.Layout), fmt.Sprintf("%02d:00", hour), nil
}

func (a *App) eventDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an event and all its responses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, email, err := a.session()
			if err != nil {
				return err
			}
			if !yes && !promptYesNo(fmt.Sprintf("Delete event %s and all responses?", args[0])) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			ctx, cancel := a.storeContext()
			defer cancel()
			if err := svc.Delete(ctx, args[0], email); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

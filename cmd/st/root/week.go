package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"smarttasks/internal/engine"
	"smarttasks/internal/ui"
)

func newWeekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the week key and the stored reset state",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if date != "" {
				t, err := time.ParseInLocation(time.DateOnly, date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", date)
				}
				fmt.Fprintln(out, ui.LabelValue("Week", engine.WeekKey(t)))
				return nil
			}

			ctx := context.Background()
			s, cleanup, err := openService(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			stored, ok, err := s.svc.StoredWeek(ctx)
			if err != nil {
				return err
			}
			now := s.svc.Now()
			current := engine.WeekKey(now)
			dec := engine.Reconcile(stored, ok, current)

			fmt.Fprintln(out, ui.Heading(ui.IconCalendar, engine.MonthLabel(now)))
			fmt.Fprintln(out, ui.LabelValue("Current week", current))
			if ok {
				fmt.Fprintln(out, ui.LabelValue("Stored week", stored))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Stored week", ui.Muted.Render("(none)")))
			}
			dates := engine.WeekDates(now)
			fmt.Fprintln(out, ui.LabelValue("Days", engine.DayLabel(dates[0])+" .. "+engine.DayLabel(dates[engine.SlotCount-1])))
			if dec.ShouldClear {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconReset+" The board will be cleared on next open."))
			} else {
				fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" Board is current."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Compute the key for a date (YYYY-MM-DD) instead")

	return cmd
}

package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"smarttasks/internal/engine"
	"smarttasks/internal/ui"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board for the current week",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := startService(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			printBoard(cmd, s.svc)
			return nil
		},
	}

	return cmd
}

func printBoard(cmd *cobra.Command, svc *engine.Service) {
	out := cmd.OutOrStdout()
	now := svc.Now()
	dates := engine.WeekDates(now)
	today := engine.TodaySlot(now)
	cat := svc.Catalog()

	fmt.Fprintln(out, ui.Heading(ui.IconCalendar, engine.MonthLabel(now)+"  "+ui.Muted.Render(svc.Week())))
	for _, slot := range svc.Slots() {
		label := engine.DayLabel(dates[slot.Index])
		if slot.Index == today {
			label = ui.Today.Render(label)
		} else {
			label = ui.Key.Render(label)
		}
		line := ui.Muted.Render("(empty)")
		if slot.Entry != nil {
			line = ui.EntryLine(cat, slot.Entry)
		}
		fmt.Fprintf(out, "%d %s  %s\n", slot.Index, label, line)
	}
}

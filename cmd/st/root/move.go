package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"smarttasks/internal/engine"
	"smarttasks/internal/ui"
)

func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move an entry to another slot (swaps when the target is occupied)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("from and to slots are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := engine.ParseSlot(args[0])
			if err != nil {
				return err
			}
			to, err := engine.ParseSlot(args[1])
			if err != nil {
				return err
			}
			ctx := context.Background()
			s, cleanup, err := startService(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := s.svc.Move(ctx, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s\n",
				ui.OutcomeText(out),
				ui.Muted.Render(engine.SlotName(from)),
				ui.Muted.Render(engine.SlotName(to)))
			return nil
		},
	}

	return cmd
}

package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"smarttasks/internal/engine"
	"smarttasks/internal/ui"
)

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <slot>",
		Aliases: []string{"rm"},
		Short:   "Remove the entry in a slot",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("slot is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := engine.ParseSlot(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			s, cleanup, err := startService(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.svc.Remove(ctx, idx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconTrash+" Removed"), ui.Muted.Render(engine.SlotName(idx)))
			return nil
		},
	}

	return cmd
}

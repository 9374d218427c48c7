package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"smarttasks/internal/engine"
	"smarttasks/internal/ui"
)

func newSetCmd() *cobra.Command {
	var desc string
	var types []string

	cmd := &cobra.Command{
		Use:   "set <slot>",
		Short: "Create or replace the entry in a slot",
		Long:  "Create or replace the entry in a slot. <slot> is 0-6 or a weekday name (mon..sun).",
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

			form := engine.Form{Description: desc, Types: engine.ParseTypes(types)}
			if !cmd.Flags().Changed("type") {
				form.Types = []string{s.svc.Catalog().Default}
			}
			action, err := s.svc.Put(ctx, idx, form)
			if err != nil {
				return err
			}

			icon := ui.IconPlus
			if action == engine.ActionUpdated {
				icon = ui.IconEdit
			}
			slot, err := s.svc.Slot(idx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Good.Render(icon+" "+action.String()),
				ui.Key.Render(engine.SlotName(idx)+":"),
				ui.EntryLine(s.svc.Catalog(), slot.Entry))
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "Type tag (repeatable or comma separated; defaults to the configured default type)")

	return cmd
}

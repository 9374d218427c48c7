package root

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"smarttasks/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive weekly board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			// The alt screen owns the terminal, so logs only go to a configured file.
			s, cleanup, err := openService(ctx, io.Discard)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, s.svc, s.log, cmd.OutOrStdout())
		},
	}

	return cmd
}

package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smarttasks/internal/engine"
	"smarttasks/internal/ui"
)

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved entries payload as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := startService(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			payload, err := s.svc.Export(ctx)
			if err != nil {
				return err
			}
			if out == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), payload)
				return nil
			}
			if err := os.WriteFile(out, []byte(payload), 0o644); err != nil {
				return fmt.Errorf("export write: %w", err)
			}
			s.log.WithField("file", out).Debug("entries exported")
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconExport+" Exported"), ui.Muted.Render(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", engine.ExportFileName, `Output file ("-" for stdout)`)

	return cmd
}

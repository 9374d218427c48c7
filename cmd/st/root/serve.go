package root

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"smarttasks/internal/api"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, cleanup, err := startService(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = s.cfg.Server.Addr
			}
			return api.Serve(ctx, api.NewServer(s.svc, s.log), addr, s.log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config server.addr)")

	return cmd
}

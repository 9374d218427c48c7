package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smarttasks/internal/ui"
)

const Version = "0.1.0"

var configPath string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "st",
		Short:         "Smart Tasks: a weekly task board",
		Long:          "Smart Tasks keeps one categorized entry per day of the current week and clears itself when the week changes.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.smart-tasks/config.yaml, then ./.smart-tasks/config.yaml)")

	rootCmd.AddCommand(
		newBoardCmd(),
		newShowCmd(),
		newSetCmd(),
		newRemoveCmd(),
		newMoveCmd(),
		newExportCmd(),
		newWeekCmd(),
		newServeCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

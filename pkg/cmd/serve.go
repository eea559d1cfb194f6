package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yeisme/videocatalog/pkg/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the http api server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.NewApp(ctx, configPath)
		if err != nil {
			return err
		}

		return a.Run(ctx)
	},
}

func registerServeCommands() {
	rootCmd.AddCommand(serveCmd)
}

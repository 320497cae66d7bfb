package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newServeCmd creates the "toolhub serve" subcommand.
func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Serves the catalog, session and preferences APIs until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(*configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(settings.Log.Level)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, settings, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			logger.Info("toolhub starting", zap.String("addr", settings.Server.Addr()))
			if err := a.Run(ctx); err != nil {
				return err
			}
			logger.Info("toolhub stopped")
			return nil
		},
	}
}

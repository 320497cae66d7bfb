package main

import (
	"fmt"

	"github.com/HerbHall/toolhub/internal/config"
	"github.com/HerbHall/toolhub/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newRootCmd creates the root toolhub command with all subcommands attached.
func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "toolhub",
		Short:         "Tool catalog discovery service",
		Long:          "toolhub filters, ranks and pages a catalog of tools for each user's\ninterests and serves user preferences over HTTP.",
		Version:       version.Info(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default ./toolhub.yaml if present)")

	cmd.AddCommand(
		newServeCmd(&configPath),
		newBackupCmd(&configPath),
		newRestoreCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

// loadSettings reads the config file and environment into typed settings.
func loadSettings(path string) (config.Settings, error) {
	v, err := config.Load(path)
	if err != nil {
		return config.Settings{}, err
	}
	return config.New(v).Settings()
}

// newLogger builds a production logger at the named level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log.level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

package main

import (
	"fmt"
	"time"

	"github.com/HerbHall/toolhub/internal/backup"
	"github.com/HerbHall/toolhub/internal/config"
	"github.com/spf13/cobra"
)

// newBackupCmd creates the "toolhub backup" subcommand.
func newBackupCmd(configPath *string) *cobra.Command {
	var output, dbPath string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the preferences database and config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				settings, err := loadSettings(*configPath)
				if err != nil {
					return err
				}
				if settings.Preferences.Backend != config.BackendSQLite {
					return fmt.Errorf("backup needs the sqlite backend, configured %q", settings.Preferences.Backend)
				}
				dbPath = settings.Preferences.SQLitePath
			}
			if output == "" {
				output = fmt.Sprintf("toolhub-backup-%s.tar.gz", time.Now().Format("20060102-150405"))
			}

			m, err := backup.Backup(cmd.Context(), dbPath, *configPath, output)
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup created: %s (%d files)\n", output, len(m.Files))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default toolhub-backup-{timestamp}.tar.gz)")
	cmd.Flags().StringVar(&dbPath, "db", "", "database file (default preferences.sqlite_path)")
	return cmd
}

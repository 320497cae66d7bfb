package main

import (
	"fmt"

	"github.com/HerbHall/toolhub/internal/backup"
	"github.com/spf13/cobra"
)

// newRestoreCmd creates the "toolhub restore" subcommand.
func newRestoreCmd() *cobra.Command {
	var dataDir string
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <archive>",
		Short: "Restore a backup archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := backup.Restore(cmd.Context(), args[0], dataDir, force)
			if err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d files from backup %s to %s\n", len(m.Files), m.Version, dataDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", ".", "target directory for restored files")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

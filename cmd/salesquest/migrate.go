// ABOUTME: CLI command for moving data between storage backends.
// ABOUTME: Copies every salesquest key from one backend to another in one write.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/salesquest/internal/config"
	"github.com/harperreed/salesquest/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateForce  bool
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:         "migrate",
	Short:       "Copy data between storage backends",
	Annotations: noStorage(),
	Long: `Copy trial status, premium flag, progress, and options from one
storage backend to another.

BACKENDS: sqlite, badger, charm

The destination must be empty unless --force is given. Both backends use the
configured data directory.

USAGE:

  salesquest migrate --from charm --to sqlite --dry-run
  salesquest migrate --from charm --to sqlite
  salesquest migrate --from sqlite --to badger --force

Afterwards set "backend" in ~/.config/salesquest/config.json to the destination.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %q", migrateFrom)
		}

		src, err := config.OpenBackend(migrateFrom, cfg.GetDataDir())
		if err != nil {
			return fmt.Errorf("open source %s: %w", migrateFrom, err)
		}
		defer src.Close()

		out := cmd.OutOrStdout()
		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			record, err := src.Get(cmd.Context(), storage.AllKeys...)
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			fmt.Fprintf(out, "Would copy %d keys from %s to %s:\n", len(record), migrateFrom, migrateTo)
			for _, key := range storage.AllKeys {
				if _, ok := record[key]; ok {
					fmt.Fprintf(out, "  %s\n", key)
				}
			}
			return nil
		}

		dst, err := config.OpenBackend(migrateTo, cfg.GetDataDir())
		if err != nil {
			return fmt.Errorf("open destination %s: %w", migrateTo, err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(cmd.Context(), src, dst, migrateForce)
		if err != nil {
			if errors.Is(err, storage.ErrDestinationNotEmpty) {
				return fmt.Errorf("%w; rerun with --force to overwrite", err)
			}
			return fmt.Errorf("migration failed: %w", err)
		}

		logger.Info().Str("from", migrateFrom).Str("to", migrateTo).Strs("keys", summary.Keys).Msg("migration complete")
		fmt.Fprintln(out, color.GreenString("✓ Migrated %d keys from %s to %s", len(summary.Keys), migrateFrom, migrateTo))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendCharm, "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendSQLite, "destination backend")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite a non-empty destination")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}

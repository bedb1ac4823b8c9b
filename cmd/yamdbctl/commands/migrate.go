// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/migration"
)

var (
	// Migrate flags
	steps int
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run database migrations against DATABASE_URL.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back migrations
  version  - Show the current schema version`,
}

// migrateUpCmd applies pending migrations
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(runner *migration.Runner) error {
			if err := runner.Up(); err != nil {
				return err
			}
			return printVersion(cmd, runner)
		})
	},
}

// migrateDownCmd rolls back migrations
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back applied migrations.

Examples:
  yamdbctl migrate down             # Roll back the last migration
  yamdbctl migrate down --steps 3   # Roll back three migrations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(runner *migration.Runner) error {
			if err := runner.Down(steps); err != nil {
				return err
			}
			return printVersion(cmd, runner)
		})
	},
}

// migrateVersionCmd shows the schema version
var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(runner *migration.Runner) error {
			return printVersion(cmd, runner)
		})
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

func withRunner(fn func(runner *migration.Runner) error) error {
	runner, err := migration.New(cfg.DatabaseURL, cfg.MigrationPath, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	return fn(runner)
}

func printVersion(cmd *cobra.Command, runner *migration.Runner) error {
	version, dirty, err := runner.Version()
	if err != nil {
		return err
	}

	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d\n", version)
	return nil
}

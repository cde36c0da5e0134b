package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yourusername/tutorconnect-api/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		return database.MigrateDB(db, dir)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		steps, _ := cmd.Flags().GetInt("steps")
		return database.RollbackDB(db, dir, steps)
	},
}

var migrateForceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set migration version and clear the dirty flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		return database.ForceVersion(db, dir, version)
	},
}

func init() {
	migrateCmd.PersistentFlags().String("dir", database.DefaultMigrationsDir, "Migrations directory")
	migrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateForceCmd)
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/janhq/image-storage-api/internal/infrastructure/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the metadata schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateUp,
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	Args:  cobra.NoArgs,
	RunE:  runMigrateVersion,
}

var migrateForceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Mark a version as applied and clear the dirty flag",
	Long:  `force does not run any SQL. Use it after repairing a migration that failed halfway.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrateForce,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
	migrateCmd.AddCommand(migrateForceCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	_, dbConfig, err := loadConfig()
	if err != nil {
		return err
	}
	if err := database.Migrate(cmd.Context(), dbConfig, cliLogger()); err != nil {
		return err
	}
	return printVersion(cmd, dbConfig)
}

func runMigrateVersion(cmd *cobra.Command, args []string) error {
	_, dbConfig, err := loadConfig()
	if err != nil {
		return err
	}
	return printVersion(cmd, dbConfig)
}

func runMigrateForce(cmd *cobra.Command, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil || version < 0 {
		return fmt.Errorf("invalid version %q", args[0])
	}
	_, dbConfig, err := loadConfig()
	if err != nil {
		return err
	}
	if err := database.Force(cmd.Context(), dbConfig, version); err != nil {
		return err
	}
	return printVersion(cmd, dbConfig)
}

func printVersion(cmd *cobra.Command, dbConfig database.Config) error {
	version, dirty, err := database.Version(cmd.Context(), dbConfig)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
	return nil
}

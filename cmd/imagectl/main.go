package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "imagectl",
	Short: "Operator tool for the image storage API",
	Long: `imagectl works directly against the image storage API's metadata store
and object storage, using the same environment configuration as the server.

Examples:
  imagectl migrate up
  imagectl images list --limit 20
  imagectl images get 6f1c7b9e-2d4a-4e8b-9c3f-1a2b3c4d5e6f
  imagectl orphans
  imagectl config show`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadEnvFiles()
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			return os.Setenv("IMAGE_API_CONFIG_FILE", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(orphansCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().String("config", "", "YAML config file (overrides IMAGE_API_CONFIG_FILE)")
}

func loadEnvFiles() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}

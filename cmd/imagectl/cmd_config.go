package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/janhq/image-storage-api/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets redacted",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the environment and config file parse",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(redacted(cfg))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "configuration OK (db: %s, storage: %s)\n", cfg.DBDriver, cfg.StorageBackend)
	return nil
}

func redacted(cfg *config.Config) map[string]any {
	secret := func(value string) string {
		if value == "" {
			return ""
		}
		return "********"
	}
	return map[string]any{
		"service_name":       cfg.ServiceName,
		"environment":        cfg.Environment,
		"port":               cfg.HTTPPort,
		"log_level":          cfg.LogLevel,
		"log_format":         cfg.LogFormat,
		"images_dir":         cfg.ImagesDir,
		"logs_dir":           cfg.LogsDir,
		"external_url":       cfg.ExternalURL,
		"db_driver":          cfg.DBDriver,
		"db_dsn":             secretDSN(cfg),
		"storage_backend":    cfg.StorageBackend,
		"s3_endpoint":        cfg.S3Endpoint,
		"s3_bucket":          cfg.S3Bucket,
		"s3_prefix":          cfg.S3Prefix,
		"s3_access_key_id":   secret(cfg.S3AccessKeyID),
		"s3_secret_key":      secret(cfg.S3SecretKey),
		"max_file_size":      cfg.MaxFileSize,
		"allowed_extensions": cfg.AllowedExtensions,
		"allowed_mime_types": cfg.AllowedMimeTypes,
		"content_sniffing":   cfg.ContentSniffing,
		"id_existence_check": cfg.IDExistenceCheck,
		"record_cache_size":  cfg.RecordCacheSize,
		"serve_files":        cfg.ServeFiles,
	}
}

// secretDSN keeps sqlite paths readable and hides postgres credentials.
func secretDSN(cfg *config.Config) string {
	if cfg.IsSQLite() {
		return cfg.DBDSN
	}
	return "********"
}

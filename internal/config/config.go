package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config holds the environment driven configuration for the image storage service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"image-storage-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"IMAGE_API_PORT" envDefault:"8000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"` // Options: "console" or "json"
	LogFile         string        `env:"LOG_FILE"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Directories
	ImagesDir   string `env:"IMAGES_DIR" envDefault:"/images"`
	LogsDir     string `env:"LOGS_DIR" envDefault:"/logs"`
	ExternalURL string `env:"EXTERNAL_URL" envDefault:"/images"` // Prefix for record URLs, usually the path nginx serves IMAGES_DIR on

	// Database
	DBDriver       string        `env:"DB_DRIVER" envDefault:"sqlite"` // Options: "sqlite" or "postgres"
	DBDSN          string        `env:"DB_DSN"`                        // Defaults to <LOGS_DIR>/metadata.db for sqlite
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"0"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"0"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Storage Backend Selection
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"local"` // Options: "local" or "s3"

	// S3 Storage Configuration
	S3Endpoint     string `env:"IMAGE_S3_ENDPOINT"`
	S3Region       string `env:"IMAGE_S3_REGION" envDefault:"us-east-1"`
	S3Bucket       string `env:"IMAGE_S3_BUCKET"`
	S3AccessKeyID  string `env:"IMAGE_S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"IMAGE_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool   `env:"IMAGE_S3_USE_PATH_STYLE" envDefault:"true"`
	S3Prefix       string `env:"IMAGE_S3_PREFIX"`

	// Upload constraints
	MaxFileSize        int64    `env:"MAX_FILE_SIZE" envDefault:"5242880"`
	MaxRequestOverhead int64    `env:"MAX_REQUEST_OVERHEAD" envDefault:"65536"`
	AllowedExtensions  []string `env:"ALLOWED_EXTENSIONS" envDefault:".jpg,.jpeg,.png,.gif" envSeparator:","`
	AllowedMimeTypes   []string `env:"ALLOWED_MIME_TYPES" envDefault:"image/jpeg,image/png,image/gif" envSeparator:","`
	ContentSniffing    bool     `env:"CONTENT_SNIFFING" envDefault:"true"`
	MaxImagePixels     int64    `env:"MAX_IMAGE_PIXELS" envDefault:"178956970"`
	IDExistenceCheck   bool     `env:"ID_EXISTENCE_CHECK" envDefault:"false"`

	// Read path
	ListDefaultLimit int  `env:"LIST_DEFAULT_LIMIT" envDefault:"100"`
	ListMaxLimit     int  `env:"LIST_MAX_LIMIT" envDefault:"1000"`
	RecordCacheSize  int  `env:"RECORD_CACHE_SIZE" envDefault:"1024"`
	ServeFiles       bool `env:"SERVE_FILES" envDefault:"true"`
}

// Load parses configuration.
//
// Loading order (highest to lowest priority):
//  1. Environment variables (including values loaded from .env files)
//  2. YAML file named by IMAGE_API_CONFIG_FILE, keyed by environment variable name
//  3. Default values from struct tags
func Load() (*Config, error) {
	environment, err := environmentWithFile(os.Getenv("IMAGE_API_CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	return LoadFrom(environment)
}

// LoadFrom parses configuration from an explicit variable set.
func LoadFrom(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func environmentWithFile(path string) (map[string]string, error) {
	merged := map[string]string{}
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		var fileValues map[string]any
		if err := yaml.Unmarshal(raw, &fileValues); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		for key, value := range fileValues {
			merged[strings.ToUpper(key)] = yamlValueString(value)
		}
	}
	for key, value := range env.ToMap(os.Environ()) {
		merged[key] = value
	}
	return merged, nil
}

func yamlValueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

func (c *Config) normalize() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	c.S3Bucket = strings.TrimSpace(c.S3Bucket)
	c.S3AccessKeyID = strings.TrimSpace(c.S3AccessKeyID)
	c.S3SecretKey = strings.TrimSpace(c.S3SecretKey)
	c.S3Endpoint = strings.TrimSpace(c.S3Endpoint)
	c.ExternalURL = strings.TrimSpace(c.ExternalURL)

	switch c.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.DBDSN) == "" {
			c.DBDSN = filepath.Join(c.LogsDir, "metadata.db")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("DB_DSN is required when DB_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.StorageBackend {
	case BackendLocal:
		if strings.TrimSpace(c.ImagesDir) == "" {
			return fmt.Errorf("IMAGES_DIR is required for local storage")
		}
	case BackendS3:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if c.MaxRequestOverhead < 0 {
		return fmt.Errorf("MAX_REQUEST_OVERHEAD must not be negative")
	}
	if c.ListDefaultLimit <= 0 || c.ListMaxLimit <= 0 {
		return fmt.Errorf("LIST_DEFAULT_LIMIT and LIST_MAX_LIMIT must be positive")
	}
	if c.ListDefaultLimit > c.ListMaxLimit {
		c.ListDefaultLimit = c.ListMaxLimit
	}
	if c.RecordCacheSize < 0 {
		c.RecordCacheSize = 0
	}

	c.AllowedExtensions = normalizeExtensions(c.AllowedExtensions)
	c.AllowedMimeTypes = normalizeList(c.AllowedMimeTypes)
	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must not be empty")
	}
	if len(c.AllowedMimeTypes) == 0 {
		return fmt.Errorf("ALLOWED_MIME_TYPES must not be empty")
	}
	return nil
}

func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range normalizeList(values) {
		if !strings.HasPrefix(value, ".") {
			value = "." + value
		}
		out = append(out, value)
	}
	return out
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// MaxRequestBytes bounds the raw multipart body: the file limit plus framing overhead.
func (c *Config) MaxRequestBytes() int64 {
	return c.MaxFileSize + c.MaxRequestOverhead
}

// IsLocalStorage returns true if local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	return c.StorageBackend == BackendLocal
}

// IsSQLite returns true if the metadata store is a SQLite file.
func (c *Config) IsSQLite() bool {
	return c.DBDriver == DriverSQLite
}

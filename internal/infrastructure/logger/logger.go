package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/image-storage-api/internal/config"
)

// New builds the process logger: console or JSON on stdout, plus a JSON
// file sink when LOG_FILE is set. The returned closer releases the file.
func New(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	return build(cfg, os.Stdout)
}

func build(cfg *config.Config, stdout io.Writer) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("parse log level: %w", err)
	}

	var primary io.Writer
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		primary = stdout
	case "console", "":
		primary = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}
	default:
		return zerolog.Logger{}, nil, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	writer := primary
	var closer io.Closer = nopCloser{}
	if path := strings.TrimSpace(cfg.LogFile); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
		}
		writer = zerolog.MultiLevelWriter(primary, file)
		closer = file
	}

	log := zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/image-storage-api/internal/config"
	domain "github.com/janhq/image-storage-api/internal/domain/image"
	"github.com/janhq/image-storage-api/internal/infrastructure/metrics"
)

const tempPrefix = ".upload-tmp-"

var (
	errInvalidKey   = errors.New("invalid object key")
	errObjectExists = errors.New("object already exists")
)

// LocalStorage keeps one file per image directly under the images directory.
type LocalStorage struct {
	basePath string
	log      zerolog.Logger
}

// NewLocalStorage creates the images directory if needed.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath := strings.TrimSpace(cfg.ImagesDir)
	if basePath == "" {
		return nil, errors.New("IMAGES_DIR is not set")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	logger.Info().Str("path", basePath).Msg("local storage initialized")
	return &LocalStorage{basePath: basePath, log: logger}, nil
}

func (l *LocalStorage) Name() string {
	return config.BackendLocal
}

func (l *LocalStorage) objectPath(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", errInvalidKey, key)
	}
	return filepath.Join(l.basePath, key), nil
}

// Put writes to a temporary file, syncs it and renames it into place, so a
// failed write never leaves a partial file under the final name.
func (l *LocalStorage) Put(ctx context.Context, key string, data []byte, contentType string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStorageOperation(l.Name(), "put", err, time.Since(start).Seconds()) }()

	objectPath, err := l.objectPath(key)
	if err != nil {
		return err
	}
	if _, statErr := os.Lstat(objectPath); statErr == nil {
		return fmt.Errorf("%w: %s", errObjectExists, key)
	}

	tempFile, err := os.CreateTemp(l.basePath, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err = tempFile.Write(data); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = tempFile.Sync(); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err = tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = os.Rename(tempPath, objectPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	l.log.Debug().
		Str("key", key).
		Str("content_type", contentType).
		Int("bytes", len(data)).
		Msg("file written to local storage")
	return nil
}

// Open reads a file from the images directory.
func (l *LocalStorage) Open(ctx context.Context, key string) (_ io.ReadCloser, err error) {
	start := time.Now()
	defer func() { metrics.RecordStorageOperation(l.Name(), "open", err, time.Since(start).Seconds()) }()

	objectPath, err := l.objectPath(key)
	if err != nil {
		return nil, domain.ErrObjectNotFound
	}
	file, err := os.Open(objectPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// List returns the stored object names, skipping hidden and in-flight files.
func (l *LocalStorage) List(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { metrics.RecordStorageOperation(l.Name(), "list", err, time.Since(start).Seconds()) }()

	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		keys = append(keys, entry.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

// Health checks if the images directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	testFile := filepath.Join(l.basePath, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("images directory not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}

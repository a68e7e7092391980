package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "image-storage-api", cfg.ServiceName)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, int64(5*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, cfg.MaxFileSize+65536, cfg.MaxRequestBytes())
	assert.Equal(t, []string{".jpg", ".jpeg", ".png", ".gif"}, cfg.AllowedExtensions)
	assert.Equal(t, []string{"image/jpeg", "image/png", "image/gif"}, cfg.AllowedMimeTypes)
	assert.Equal(t, filepath.Join("/logs", "metadata.db"), cfg.DBDSN)
	assert.Equal(t, "/images", cfg.ExternalURL)
	assert.Equal(t, 100, cfg.ListDefaultLimit)
	assert.True(t, cfg.ContentSniffing)
	assert.False(t, cfg.IDExistenceCheck)
	assert.True(t, cfg.IsLocalStorage())
	assert.True(t, cfg.IsSQLite())
}

func TestLoadFrom_NormalizesAllowLists(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"ALLOWED_EXTENSIONS": " PNG, .Jpg ,,.png",
		"ALLOWED_MIME_TYPES": "IMAGE/PNG,image/jpeg",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{".png", ".jpg"}, cfg.AllowedExtensions)
	assert.Equal(t, []string{"image/png", "image/jpeg"}, cfg.AllowedMimeTypes)
}

func TestLoadFrom_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "postgres without dsn", env: map[string]string{"DB_DRIVER": "postgres"}},
		{name: "unknown backend", env: map[string]string{"STORAGE_BACKEND": "gcs"}},
		{name: "zero max size", env: map[string]string{"MAX_FILE_SIZE": "0"}},
		{name: "empty extensions", env: map[string]string{"ALLOWED_EXTENSIONS": " , "}},
		{name: "bad duration", env: map[string]string{"SHUTDOWN_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.env)
			assert.Error(t, err)
		})
	}
}

func TestLoad_YAMLFileBelowEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "IMAGE_API_PORT: 9100\nEXTERNAL_URL: /static/images\nallowed_extensions:\n  - .png\n  - .gif\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("IMAGE_API_CONFIG_FILE", path)
	t.Setenv("EXTERNAL_URL", "/cdn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.HTTPPort)
	assert.Equal(t, "/cdn", cfg.ExternalURL)
	assert.Equal(t, []string{".png", ".gif"}, cfg.AllowedExtensions)
}

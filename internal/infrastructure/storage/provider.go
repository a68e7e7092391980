package storage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/image-storage-api/internal/config"
	domain "github.com/janhq/image-storage-api/internal/domain/image"
)

// New returns the backend named by STORAGE_BACKEND.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (domain.Storage, error) {
	if cfg.IsLocalStorage() {
		local, err := NewLocalStorage(cfg, log)
		if err != nil {
			return nil, err
		}
		return local, nil
	}
	remote, err := NewS3Storage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return remote, nil
}

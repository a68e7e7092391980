package handlers

import (
	"github.com/rs/zerolog"

	"github.com/janhq/image-storage-api/internal/config"
	domain "github.com/janhq/image-storage-api/internal/domain/image"
)

// Provider wires HTTP handlers.
type Provider struct {
	Image  *ImageHandler
	Health *HealthHandler
}

func NewProvider(cfg *config.Config, service *domain.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Image:  NewImageHandler(cfg, service, log),
		Health: NewHealthHandler(service),
	}
}

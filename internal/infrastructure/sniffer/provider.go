package sniffer

import (
	"github.com/rs/zerolog"

	"github.com/janhq/image-storage-api/internal/config"
	domain "github.com/janhq/image-storage-api/internal/domain/image"
	"github.com/janhq/image-storage-api/internal/infrastructure/metrics"
)

// New selects the sniffer once at startup. Extension-trust mode is logged
// at WARN and exported as content_sniffing_enabled=0.
func New(cfg *config.Config, log zerolog.Logger) domain.ContentSniffer {
	metrics.SetContentSniffing(cfg.ContentSniffing)
	if !cfg.ContentSniffing {
		log.Warn().
			Str("component", "sniffer").
			Msg("content sniffing disabled: uploads are typed by file extension without content verification")
		return Extension{}
	}
	return NewDecoding(cfg.MaxImagePixels)
}

package sniffer

import (
	"bytes"
	"fmt"
	stdimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	domain "github.com/janhq/image-storage-api/internal/domain/image"
)

// Decoding verifies uploads by decoding them. Formats are those registered
// with the image package: gif, jpeg, png, bmp, tiff and webp.
type Decoding struct {
	maxPixels int64
}

// NewDecoding returns a sniffer that refuses images above maxPixels (0 disables the cap).
func NewDecoding(maxPixels int64) *Decoding {
	return &Decoding{maxPixels: maxPixels}
}

func (d *Decoding) Mode() string {
	return "decoding"
}

// Sniff reads the header for format and size, then fully decodes the bytes.
// A header that parses over a truncated or damaged body is still corrupt.
func (d *Decoding) Sniff(data []byte) (*domain.SniffResult, error) {
	if len(data) == 0 {
		return nil, &domain.CorruptImageError{Reason: "empty file"}
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, &domain.CorruptImageError{Reason: fmt.Sprintf("content looks like %s", detected.String())}
	}

	cfg, format, err := stdimage.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.CorruptImageError{Reason: err.Error()}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &domain.CorruptImageError{Reason: "image has no pixels"}
	}
	if d.maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > d.maxPixels {
		return nil, &domain.CorruptImageError{Reason: fmt.Sprintf("image exceeds %d pixels", d.maxPixels)}
	}

	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return nil, &domain.CorruptImageError{Reason: err.Error()}
	}

	return &domain.SniffResult{
		Format: strings.ToLower(format),
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

package sniffer

import domain "github.com/janhq/image-storage-api/internal/domain/image"

// Extension never inspects content. Uploads are typed by filename only.
type Extension struct{}

func (Extension) Sniff([]byte) (*domain.SniffResult, error) {
	return nil, domain.ErrSniffUnavailable
}

func (Extension) Mode() string {
	return "extension"
}

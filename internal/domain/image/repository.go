package image

import "context"

// Repository persists image metadata. Records are append-only.
type Repository interface {
	Insert(ctx context.Context, img *Image) error
	GetByID(ctx context.Context, id string) (*Image, error)
	ListRecent(ctx context.Context, limit int) ([]*Image, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListStoredFilenames(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

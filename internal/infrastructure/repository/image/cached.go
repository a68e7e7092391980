package image

import (
	"context"

	lru "github.com/hashicorp/golang-lru"

	domain "github.com/janhq/image-storage-api/internal/domain/image"
)

// CachedRepository serves point lookups from an LRU. Records are immutable,
// so cached entries never go stale; only reads populate the cache.
type CachedRepository struct {
	domain.Repository
	cache *lru.Cache
}

// NewCachedRepository wraps inner with a cache of size entries. A size of
// zero or less disables caching and returns inner.
func NewCachedRepository(inner domain.Repository, size int) (domain.Repository, error) {
	if size <= 0 {
		return inner, nil
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedRepository{Repository: inner, cache: cache}, nil
}

func (c *CachedRepository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	if cached, ok := c.cache.Get(id); ok {
		img := *cached.(*domain.Image)
		return &img, nil
	}
	img, err := c.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stored := *img
	c.cache.Add(id, &stored)
	return img, nil
}

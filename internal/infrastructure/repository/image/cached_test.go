package image

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/janhq/image-storage-api/internal/domain/image"
	"github.com/janhq/image-storage-api/utils/platformerrors"
)

type countingRepository struct {
	domain.Repository
	records map[string]*domain.Image
	gets    int
}

func (c *countingRepository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	c.gets++
	if img, ok := c.records[id]; ok {
		return img, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "Image not found", nil, "test")
}

func TestCachedRepository_GetByID(t *testing.T) {
	record := newRecord(time.Now(), 4, 4)
	inner := &countingRepository{records: map[string]*domain.Image{record.ID: record}}

	repo, err := NewCachedRepository(inner, 8)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.gets)
	assert.Equal(t, first, second)

	second.OriginalFilename = "mutated by caller"
	third, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.OriginalFilename, third.OriginalFilename)
}

func TestCachedRepository_MissesAreNotCached(t *testing.T) {
	inner := &countingRepository{records: map[string]*domain.Image{}}
	repo, err := NewCachedRepository(inner, 8)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := repo.GetByID(context.Background(), "missing")
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	}
	assert.Equal(t, 2, inner.gets)
}

func TestNewCachedRepository_DisabledReturnsInner(t *testing.T) {
	inner := &countingRepository{}
	repo, err := NewCachedRepository(inner, 0)
	require.NoError(t, err)
	assert.Same(t, inner, repo)
}

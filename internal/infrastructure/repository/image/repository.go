package image

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "github.com/janhq/image-storage-api/internal/domain/image"
	"github.com/janhq/image-storage-api/internal/infrastructure/database/entities"
	"github.com/janhq/image-storage-api/utils/platformerrors"
)

// Repository handles image metadata persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, img *domain.Image) error {
	if missing := missingFields(img); len(missing) > 0 {
		return platformerrors.NewErrorWithContext(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			"image record is missing required fields",
			nil,
			"5e0c7a1d-93b4-4f62-a8d1-7b2e6c9f0a31",
			map[string]any{"missing_fields": strings.Join(missing, ",")},
		)
	}

	entity := toEntity(img)
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		if isDuplicateKey(err) {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"image id already exists",
				err,
				"c3a9e4b2-1f7d-4d08-9e6a-2b5f8c1d7e40",
			)
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert image",
			err,
			"8d41f6b7-2c0e-4a95-b3d7-6e1a9c4f2b58",
		)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	var entity entities.Image
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"Image not found",
				err,
				"f2b6d8a0-7c3e-4e19-a5b4-0d9c6e2f1a73",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get image by id",
			err,
			"a7e3c1f9-4b2d-4c60-8f1e-3d5b9a0c6e82",
		)
	}
	return toDomain(entity), nil
}

// ListRecent returns at most limit records, newest upload first. Records
// sharing an upload_date are ordered by insertion sequence, latest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*domain.Image, error) {
	var rows []entities.Image
	err := r.db.WithContext(ctx).
		Order("upload_date DESC").
		Order("seq DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list images",
			err,
			"3b9f0e6c-8a2d-4f17-b6c5-1e7d4a9b2c05",
		)
	}
	images := make([]*domain.Image, 0, len(rows))
	for _, row := range rows {
		images = append(images, toDomain(row))
	}
	return images, nil
}

func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Image{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to check image id",
			err,
			"6c1d9b4e-0f3a-4b78-9d2e-5a8c7f1b3e64",
		)
	}
	return count > 0, nil
}

func (r *Repository) ListStoredFilenames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&entities.Image{}).Pluck("stored_filename", &names).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list stored filenames",
			err,
			"d9a2f5c8-3e1b-4d46-a0f7-8b6e2c4d1f97",
		)
	}
	return names, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// isDuplicateKey also matches raw driver messages the dialect translator
// does not map, such as SQLite primary key violations on TEXT keys.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

func missingFields(img *domain.Image) []string {
	if img == nil {
		return []string{"record"}
	}
	var missing []string
	if img.ID == "" {
		missing = append(missing, "id")
	}
	if img.OriginalFilename == "" {
		missing = append(missing, "original_filename")
	}
	if img.StoredFilename == "" {
		missing = append(missing, "stored_filename")
	}
	if img.MimeType == "" {
		missing = append(missing, "mime_type")
	}
	if img.UploadDate.IsZero() {
		missing = append(missing, "upload_date")
	}
	if img.URL == "" {
		missing = append(missing, "url")
	}
	return missing
}

func toEntity(img *domain.Image) entities.Image {
	return entities.Image{
		ID:               img.ID,
		OriginalFilename: img.OriginalFilename,
		StoredFilename:   img.StoredFilename,
		FileSize:         img.FileSize,
		MimeType:         img.MimeType,
		Width:            img.Width,
		Height:           img.Height,
		UploadDate:       img.UploadDate.UTC(),
		URL:              img.URL,
	}
}

func toDomain(entity entities.Image) *domain.Image {
	return &domain.Image{
		ID:               entity.ID,
		OriginalFilename: entity.OriginalFilename,
		StoredFilename:   entity.StoredFilename,
		FileSize:         entity.FileSize,
		MimeType:         entity.MimeType,
		Width:            entity.Width,
		Height:           entity.Height,
		UploadDate:       entity.UploadDate.UTC(),
		URL:              entity.URL,
	}
}

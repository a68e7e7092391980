//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/janhq/image-storage-api/internal/config"
	domain "github.com/janhq/image-storage-api/internal/domain/image"
	"github.com/janhq/image-storage-api/internal/infrastructure/database"
	"github.com/janhq/image-storage-api/internal/infrastructure/logger"
	repo "github.com/janhq/image-storage-api/internal/infrastructure/repository/image"
	"github.com/janhq/image-storage-api/internal/infrastructure/sniffer"
	"github.com/janhq/image-storage-api/internal/infrastructure/storage"
	"github.com/janhq/image-storage-api/internal/interfaces/httpserver"
)

var imageSet = wire.NewSet(
	repo.NewRepository,
	provideRepository,
	storage.New,
	sniffer.New,
	domain.NewService,
)

// BuildApplication assembles the image API with Wire.
func BuildApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		config.Load,
		provideLogger,
		database.ConfigFrom,
		newGormDB,
		imageSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil, nil
}

func provideLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	log, closer, err := logger.New(cfg)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	return log, func() { _ = closer.Close() }, nil
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, func(), error) {
	if err := database.Migrate(ctx, cfg, log); err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = database.Close(db) }, nil
}

// provideRepository fronts the gorm repository with the record cache.
func provideRepository(inner *repo.Repository, cfg *config.Config) (domain.Repository, error) {
	return repo.NewCachedRepository(inner, cfg.RecordCacheSize)
}

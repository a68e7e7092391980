package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/image-storage-api/internal/config"
	domain "github.com/janhq/image-storage-api/internal/domain/image"
	"github.com/janhq/image-storage-api/internal/infrastructure/database"
	repo "github.com/janhq/image-storage-api/internal/infrastructure/repository/image"
	"github.com/janhq/image-storage-api/internal/infrastructure/sniffer"
	"github.com/janhq/image-storage-api/internal/infrastructure/storage"
)

// session holds what a command needs to reach the service's data.
type session struct {
	cfg     *config.Config
	log     zerolog.Logger
	service *domain.Service
	close   func()
}

func loadConfig() (*config.Config, database.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, database.Config{}, err
	}
	dbConfig := database.ConfigFrom(cfg)
	dbConfig.LogLevel = gormlogger.Silent
	return cfg, dbConfig, nil
}

func cliLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().
		Timestamp().
		Str("component", "imagectl").
		Logger()
}

// openSession connects to an already migrated database. It never applies migrations.
func openSession(ctx context.Context) (*session, error) {
	cfg, dbConfig, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := cliLogger()

	db, err := database.Connect(dbConfig)
	if err != nil {
		return nil, err
	}
	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	service := domain.NewService(cfg, repo.NewRepository(db), store, sniffer.New(cfg, log), log)
	return &session{
		cfg:     cfg,
		log:     log,
		service: service,
		close:   func() { _ = database.Close(db) },
	}, nil
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

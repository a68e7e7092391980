package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/janhq/image-storage-api/internal/config"
	domain "github.com/janhq/image-storage-api/internal/domain/image"
	"github.com/janhq/image-storage-api/internal/infrastructure/database"
	"github.com/janhq/image-storage-api/internal/infrastructure/logger"
	"github.com/janhq/image-storage-api/internal/infrastructure/observability"
	repo "github.com/janhq/image-storage-api/internal/infrastructure/repository/image"
	"github.com/janhq/image-storage-api/internal/infrastructure/sniffer"
	"github.com/janhq/image-storage-api/internal/infrastructure/storage"
	"github.com/janhq/image-storage-api/internal/interfaces/httpserver"
)

// @title Image Storage API
// @version 1.0
// @description Image upload, validation and metadata service
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, logCloser, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	dbConfig := database.ConfigFrom(cfg)
	if err := database.Migrate(ctx, dbConfig, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	db, err := database.Connect(dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	imageRepository, err := repo.NewCachedRepository(repo.NewRepository(db), cfg.RecordCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize record cache")
	}

	storageClient, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	contentSniffer := sniffer.New(cfg, log)
	imageService := domain.NewService(cfg, imageRepository, storageClient, contentSniffer, log)

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("storage", storageClient.Name()).
		Str("content_sniffing", contentSniffer.Mode()).
		Int64("max_file_size", cfg.MaxFileSize).
		Strs("allowed_extensions", cfg.AllowedExtensions).
		Str("external_url", cfg.ExternalURL).
		Msg("image-storage-api configured")

	httpServer := httpserver.New(cfg, log, imageService)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}

package main

import (
	"context"
	"os"

	"github.com/arzan03/CourseHub/internal/config"
	"github.com/arzan03/CourseHub/internal/db"
	"github.com/arzan03/CourseHub/internal/logger"
	"github.com/arzan03/CourseHub/internal/server"
	"github.com/arzan03/CourseHub/internal/services"
	"github.com/arzan03/CourseHub/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lgr := logger.Configure(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx := context.Background()

	store, err := openStore(ctx, cfg, lgr)
	if err != nil {
		lgr.Fatal().Err(err).Msg("Failed to open store")
	}

	var images *services.ImageService
	if cfg.Minio.Enabled {
		minioStore, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		}, lgr)
		if err != nil {
			lgr.Fatal().Err(err).Msg("Failed to initialize MinIO")
		}
		images = services.NewImageService(minioStore)
	} else {
		lgr.Warn().Msg("MinIO disabled, image uploads will be rejected")
		images = services.NewImageService(nil)
	}

	tokens := services.NewTokenIssuer(services.TokenConfig{
		Secret:        cfg.JWT.Secret,
		Issuer:        cfg.JWT.Issuer,
		AdminTokenTTL: cfg.JWT.AdminTokenTTL,
		UserTokenTTL:  cfg.JWT.UserTokenTTL,
	})

	app := server.New(server.Deps{
		Store:     store,
		Tokens:    tokens,
		Auth:      services.NewAuthService(store, tokens, cfg.Auth.BcryptCost, lgr),
		Admins:    services.NewAdminService(store, images, lgr),
		Users:     services.NewUserService(store, images, lgr),
		Logger:    lgr,
		Timeout:   cfg.Database.Timeout,
		BodyLimit: cfg.Server.BodyLimit,
	})

	if err := server.Run(app, ":"+cfg.Server.Port, store, lgr); err != nil {
		lgr.Error().Err(err).Msg("Server stopped with errors")
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (db.Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory store, data is lost on restart")
		return db.NewMemoryStore(), nil
	}
	return db.ConnectMongoDB(ctx, db.MongoOptions{
		URI:          cfg.Database.URI,
		Database:     cfg.Database.Name,
		Transactions: cfg.Database.Transactions,
		Logger:       lgr,
	})
}

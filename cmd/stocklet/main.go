package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stocklet/stocklet/internal/app"
	"github.com/stocklet/stocklet/internal/attributes"
	"github.com/stocklet/stocklet/internal/blobstore"
	"github.com/stocklet/stocklet/internal/catalog"
	"github.com/stocklet/stocklet/internal/media"
	"github.com/stocklet/stocklet/internal/movements"
	"github.com/stocklet/stocklet/internal/platform/cache"
	"github.com/stocklet/stocklet/internal/platform/db"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := db.EnsureSchema(ctx, dbpool); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	var attrCache *cache.Cache
	if cfg.RedisAddr != "" {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
			attrCache = cache.NewCache(redisClient, "stocklet", cfg.CacheTTL)
		}
	}

	var store blobstore.Store
	switch cfg.StorageDriver {
	case app.StorageDriverFS:
		store, err = blobstore.NewFSStore(cfg.UploadDir)
		if err != nil {
			logger.Error("init upload dir", slog.Any("error", err))
			os.Exit(1)
		}
	case app.StorageDriverS3:
		store, err = blobstore.NewS3Store(ctx, blobstore.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			logger.Error("connect s3", slog.Any("error", err))
			os.Exit(1)
		}
	case app.StorageDriverNone:
		logger.Warn("no storage driver configured, media endpoints disabled")
	}

	attrRepo := attributes.NewRepository(dbpool)
	attrService := attributes.NewService(attrRepo, attrCache)
	attrHandler := attributes.NewHandler(logger, attrService)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	movementRepo := movements.NewRepository(dbpool)
	movementService := movements.NewService(movementRepo)
	movementHandler := movements.NewHandler(logger, movementService)

	mediaHandler := media.NewHandler(logger, store)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AttributesHandler: attrHandler,
		CatalogHandler:    catalogHandler,
		MovementsHandler:  movementHandler,
		MediaHandler:      mediaHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

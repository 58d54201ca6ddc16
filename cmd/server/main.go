package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/wastewise/expense-service/internal/auth"
	"github.com/wastewise/expense-service/internal/config"
	"github.com/wastewise/expense-service/internal/database"
	"github.com/wastewise/expense-service/internal/handler"
	"github.com/wastewise/expense-service/internal/logger"
	"github.com/wastewise/expense-service/internal/repository"
	"github.com/wastewise/expense-service/internal/server"
	"github.com/wastewise/expense-service/internal/service"
	"github.com/wastewise/expense-service/internal/storage"
	"github.com/wastewise/expense-service/internal/veryfi"
)

// @title WasteWise Expense Service API
// @version 1.0
// @description Receipt scanning, manual entry, spending aggregation and user preferences.
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.InitLogger()
	defer logger.Sync()
	zlog := logger.Log

	// Extraction client
	extractor := veryfi.NewClient(&veryfi.Config{
		ClientID: cfg.VeryfiClientID,
		Username: cfg.VeryfiUsername,
		APIKey:   cfg.VeryfiAPIKey,
		APIURL:   cfg.VeryfiAPIURL,
		Timeout:  cfg.VeryfiTimeout,
	})

	// Persistence layer
	var (
		receiptRepo repository.ReceiptRepository
		prefsRepo   repository.PreferencesRepository
	)
	switch cfg.StoreDriver {
	case "bolt":
		boltRepo, err := repository.NewBoltRepository(cfg.BoltPath)
		if err != nil {
			zlog.Fatal("failed to open bolt store", zap.Error(err))
		}
		defer boltRepo.Close()
		receiptRepo = boltRepo
		prefsRepo = boltRepo
		zlog.Info("using bolt store", zap.String("path", cfg.BoltPath))
	default:
		db, err := database.NewPostgresDB(context.Background(), cfg.PostgresDBURL)
		if err != nil {
			zlog.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()
		receiptRepo = repository.NewPostgresReceiptRepository(db.GetPool())
		prefsRepo = repository.NewPostgresPreferencesRepository(db.GetPool())
		zlog.Info("using postgres store")
	}

	// Optional image archive
	var archiver service.ImageArchiver
	if cfg.ArchiveEnabled {
		uploader, err := storage.NewS3Uploader(&storage.Config{
			Bucket: cfg.S3Bucket,
			Region: cfg.S3Region,
		})
		if err != nil {
			zlog.Fatal("failed to configure image archive", zap.Error(err))
		}
		archiver = uploader
		zlog.Info("image archive enabled", zap.String("bucket", cfg.S3Bucket))
	}

	receiptService := service.NewReceiptService(receiptRepo, prefsRepo, extractor, archiver, zlog)

	verifier := auth.NewTokenVerifier(cfg.JWTSecret, cfg.AccessExpiration)

	handlers := server.Handlers{
		Receipts:    handler.NewReceiptHandler(receiptService, zlog),
		Analytics:   handler.NewAnalyticsHandler(receiptService, zlog),
		Preferences: handler.NewPreferencesHandler(receiptService, zlog),
	}

	appServer := server.NewServer(cfg, zlog, verifier, handlers)

	if err := appServer.Start(); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}

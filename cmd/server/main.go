package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/foxxcyber/nfe-feed/internal/config"
	"github.com/foxxcyber/nfe-feed/internal/handlers"
	"github.com/foxxcyber/nfe-feed/internal/logging"
	"github.com/foxxcyber/nfe-feed/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.IsDevelopment())

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	nfeService := services.NewNFEService(
		newPageLoader(cfg),
		services.NewInvoiceParser(),
		newExporter(cfg),
		newSnapshotArchive(cfg),
	)

	app := handlers.NewApp(handlers.New(cfg, nfeService))

	log.Info().Msgf("running at http://127.0.0.1:%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newPageLoader(cfg *config.Config) services.PageLoader {
	if cfg.PageLoader == config.LoaderHTTP {
		return services.NewHTTPLoader(cfg.PageTimeout)
	}
	return services.NewBrowserLoader(cfg.ChromePath, cfg.PageTimeout)
}

func newExporter(cfg *config.Config) services.Exporter {
	if cfg.ExportBackend == config.BackendXLSX {
		log.Info().Str("file", cfg.ExportFile).Msg("exporting to local workbook")
		return services.NewWorkbookExporter(cfg.ExportFile)
	}

	if cfg.GoogleDocumentID == "" || !cfg.HasGoogleCredentials() {
		log.Warn().Msg("Google Sheets settings incomplete, exports will fail until configured")
	}
	return services.NewSheetsExporter(services.SheetsCredentials{
		DocumentID:  cfg.GoogleDocumentID,
		ClientEmail: cfg.GoogleClientEmail,
		PrivateKey:  cfg.GooglePrivateKey,
	})
}

// newSnapshotArchive returns nil when archiving is disabled or unavailable
func newSnapshotArchive(cfg *config.Config) services.SnapshotArchiver {
	if !cfg.S3Enabled {
		return nil
	}

	storage, err := services.NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize snapshot storage, archiving disabled")
		return nil
	}

	// Ensure bucket exists
	if err := storage.EnsureBucket(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure snapshot bucket exists")
	}

	log.Info().Str("bucket", storage.GetBucketName()).Msg("page snapshot archiving enabled")
	return storage
}

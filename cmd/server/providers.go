package main

import (
	"log"

	"realty_bureau_backend/internal/auth"
	"realty_bureau_backend/internal/config"
	"realty_bureau_backend/internal/listing"
	"realty_bureau_backend/internal/media"
	"realty_bureau_backend/internal/platform/database"
	"realty_bureau_backend/internal/platform/logger"

	"go.uber.org/zap"
)

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	l, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := l.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}
	return l, cleanup, nil
}

func provideDialector() database.Dialector {
	return database.PostgresDialector
}

func provideBlocklistConfig() auth.InMemoryBlocklistConfig {
	return auth.InMemoryBlocklistConfig{}
}

func provideMediaHandler(store media.Store, cfg *config.Config, logger *zap.Logger) *media.Handler {
	return media.NewHandler(store, cfg.UploadMaxBytes, logger.Named("media_handler"))
}

// plotSync carries what the sync-plots subcommand needs.
type plotSync struct {
	Service listing.Service
	Indexer listing.SearchIndexer
}

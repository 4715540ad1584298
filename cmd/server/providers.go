// File: cmd/server/providers.go
package main

import (
	"log"
	"time"

	"github.com/Ninano9/camera/internal/app"
	"github.com/Ninano9/camera/internal/auth"
	"github.com/Ninano9/camera/internal/config"
	"github.com/Ninano9/camera/internal/platform/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideDatabase opens the GORM connection and runs schema migrations.
func provideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, err
	}
	if err := app.AutoMigrate(db); err != nil {
		logger.Error("Database auto-migration failed", zap.Error(err))
		return nil, err
	}
	return db, nil
}

// provideBlocklistConfig derives blocklist cache settings from token lifetimes.
// Entries only need to outlive the access tokens they revoke.
func provideBlocklistConfig(cfg *config.Config) auth.InMemoryBlocklistConfig {
	return auth.InMemoryBlocklistConfig{
		DefaultExpiration: cfg.JWTAccessTokenTTL,
		CleanupInterval:   10 * time.Minute,
	}
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}

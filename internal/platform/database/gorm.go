// File: internal/platform/database/gorm.go
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"realty_bureau_backend/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector opens the underlying driver. Tests swap in sqlite.
type Dialector func(cfg *config.Config) gorm.Dialector

// PostgresDialector builds the postgres driver from the DB_* settings.
func PostgresDialector(cfg *config.Config) gorm.Dialector {
	return postgres.Open(cfg.DSN())
}

// Connector owns the process-wide database handle. Open is idempotent:
// repeated calls return the same handle without reconnecting, and a failed
// attempt can be retried.
type Connector struct {
	cfg       *config.Config
	logger    *zap.Logger
	dialector Dialector

	mu sync.Mutex
	db *gorm.DB
}

// NewConnector creates a connector. It does not connect.
func NewConnector(cfg *config.Config, logger *zap.Logger, dialector Dialector) *Connector {
	if dialector == nil {
		dialector = PostgresDialector
	}
	return &Connector{cfg: cfg, logger: logger, dialector: dialector}
}

// Open returns the shared handle, connecting on first use.
func (c *Connector) Open(ctx context.Context) (*gorm.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		c.logger.Debug("Using existing database connection")
		return c.db, nil
	}

	db, err := gorm.Open(c.dialector(c.cfg), &gorm.Config{
		Logger:         newGormLogger(c.cfg),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if c.cfg.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.cfg.DBMaxIdleConns)
	}
	if c.cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.cfg.DBMaxOpenConns)
	}
	if c.cfg.DBConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(c.cfg.DBConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c.logger.Info("Successfully connected to the database.")
	c.db = db
	return db, nil
}

// Close releases the handle. Calling it again, or before Open, is a no-op.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	c.db = nil
	c.logger.Info("Closing database connection...")
	return sqlDB.Close()
}

// NewGORM is the wire provider: it opens the connector's handle and returns a
// cleanup that closes it.
func NewGORM(ctx context.Context, connector *Connector) (*gorm.DB, func(), error) {
	db, err := connector.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := connector.Close(); err != nil {
			connector.logger.Error("Error closing database connection", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func newGormLogger(cfg *config.Config) gormlogger.Interface {
	var level gormlogger.LogLevel
	switch cfg.LogLevel {
	case "silent", "fatal", "panic":
		level = gormlogger.Silent
	case "error":
		level = gormlogger.Error
	case "debug":
		level = gormlogger.Info
	default:
		level = gormlogger.Warn
	}
	return gormlogger.Default.LogMode(level)
}

package config

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/storage"
)

// Connect opens the relational database for the sqlite or postgres driver and
// migrates the key-value table.
func Connect(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DBURL)
	default:
		return nil, fmt.Errorf("driver %q has no database", cfg.StoreDriver)
	}

	level := gormlogger.Warn
	if !cfg.IsDevelopment() {
		level = gormlogger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.StoreDriver, err)
	}
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

// OpenStore builds the key-value store selected by cfg. The returned close
// function releases its connections.
func OpenStore(ctx context.Context, cfg *Config, log *logger.Logger) (storage.Store, func() error, error) {
	switch cfg.StoreDriver {
	case DriverMemory:
		log.Warn("using in-memory store; data is lost on exit")
		return storage.NewMemoryStore(), func() error { return nil }, nil
	case DriverRedis:
		s, err := storage.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to redis", "addr", cfg.RedisAddr)
		return s, s.Close, nil
	}

	db, err := Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database handle: %w", err)
	}
	if cfg.StoreDriver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}
	log.Info("connected to database", "driver", cfg.StoreDriver)
	return storage.NewGormStore(db), sqlDB.Close, nil
}

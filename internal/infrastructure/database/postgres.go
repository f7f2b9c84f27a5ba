package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/caption-relay/pkg/config"
)

// openPostgres opens the gorm pool behind the Postgres repositories
func openPostgres(ctx context.Context, cfg *config.Config) (*Connection, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: newGormLogger(cfg),
		// 23505 surfaces as gorm.ErrDuplicatedKey for conflict recovery
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	applyPool(sqlDB, cfg.Database)

	if err := ping(ctx, sqlDB, cfg.Database.ConnectTimeout); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Printf("✅ Postgres connected (%s:%s/%s, max %d conns)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Name, cfg.Database.MaxConns)
	return &Connection{SQL: sqlDB, Gorm: db, Dialect: DialectPostgres}, nil
}

func newGormLogger(cfg *config.Config) logger.Interface {
	return logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             cfg.Database.SlowQuery,
		LogLevel:                  gormLogLevel(cfg),
		IgnoreRecordNotFoundError: true,
		Colorful:                  !cfg.IsProduction(),
	})
}

// gormLogLevel keeps production to errors; query tracing is opt-in
func gormLogLevel(cfg *config.Config) logger.LogLevel {
	switch {
	case cfg.IsProduction():
		return logger.Error
	case cfg.Database.LogQueries:
		return logger.Info
	}
	return logger.Warn
}

// applyPool sizes the pool. Non-positive settings keep the database/sql
// defaults.
func applyPool(db *sql.DB, cfg config.DatabaseConfig) {
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		idle := cfg.MinConns
		if cfg.MaxConns > 0 && idle > cfg.MaxConns {
			idle = cfg.MaxConns
		}
		db.SetMaxIdleConns(idle)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func ping(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

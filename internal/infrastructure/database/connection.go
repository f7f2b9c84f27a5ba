package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/johnquangdev/caption-relay/pkg/config"
)

// Connection is an open database for the configured driver. Gorm is only set
// for Postgres.
type Connection struct {
	SQL     *sql.DB
	Gorm    *gorm.DB
	Dialect string
}

// Open connects to the database selected by DB_DRIVER
func Open(ctx context.Context, cfg *config.Config) (*Connection, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := NewSQLiteDB(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Connection{SQL: db, Dialect: DialectSQLite}, nil

	case "postgres", "":
		return openPostgres(ctx, cfg)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// Migrate applies the embedded migrations for the connection's dialect
func (c *Connection) Migrate() error {
	return Migrate(c.SQL, c.Dialect)
}

// Close closes the underlying pool. Gorm shares it, so one close covers both.
func (c *Connection) Close() error {
	if err := c.SQL.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	log.Println("✅ Database connection closed")
	return nil
}

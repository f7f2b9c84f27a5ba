package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// Dialect names as understood by sql-migrate
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

func migrationSource(dialect string) (migrate.MigrationSource, error) {
	switch dialect {
	case DialectPostgres:
		return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrationFS, Root: "migrations/postgres"}, nil
	case DialectSQLite:
		return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrationFS, Root: "migrations/sqlite"}, nil
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

// Migrate applies all pending up migrations for dialect
func Migrate(db *sql.DB, dialect string) error {
	log.Printf("🔄 Applying %s migrations using sql-migrate...", dialect)

	source, err := migrationSource(dialect)
	if err != nil {
		return err
	}

	n, err := migrate.Exec(db, dialect, source, migrate.Up)
	if err != nil {
		return fmt.Errorf("failed to apply migration, error: %v", err)
	}

	log.Printf("✅ Applied %d migrations!\n", n)
	return nil
}

// Rollback reverts up to max migrations; max <= 0 reverts all
func Rollback(db *sql.DB, dialect string, max int) (int, error) {
	source, err := migrationSource(dialect)
	if err != nil {
		return 0, err
	}
	if max <= 0 {
		return migrate.Exec(db, dialect, source, migrate.Down)
	}
	return migrate.ExecMax(db, dialect, source, migrate.Down, max)
}

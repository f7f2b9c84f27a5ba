package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm/logger"

	"github.com/johnquangdev/caption-relay/pkg/config"
)

func TestGormLogLevel(t *testing.T) {
	tests := []struct {
		name string
		env  string
		log  bool
		want logger.LogLevel
	}{
		{name: "development", env: "development", want: logger.Warn},
		{name: "query tracing", env: "development", log: true, want: logger.Info},
		{name: "production ignores tracing", env: "production", log: true, want: logger.Error},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Server:   config.ServerConfig{Environment: tt.env},
				Database: config.DatabaseConfig{LogQueries: tt.log},
			}
			if got := gormLogLevel(cfg); got != tt.want {
				t.Errorf("gormLogLevel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyPool(t *testing.T) {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	// zero settings keep what the pool already has
	applyPool(db, config.DatabaseConfig{})
	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("max open = %d, want 1", got)
	}

	applyPool(db, config.DatabaseConfig{MaxConns: 4, MinConns: 10, ConnMaxLifetime: time.Minute})
	if got := db.Stats().MaxOpenConnections; got != 4 {
		t.Fatalf("max open = %d, want 4", got)
	}
}

func TestPing_CanceledContext(t *testing.T) {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := ping(context.Background(), db, time.Second); err != nil {
		t.Fatalf("ping: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ping(ctx, db, time.Second); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestOpen_SQLiteMigratesAndCloses(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "relay.sqlite"),
	}}

	conn, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if conn.Dialect != DialectSQLite || conn.Gorm != nil {
		t.Fatalf("conn = %+v", conn)
	}
	if err := conn.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	var n int
	if err := conn.SQL.QueryRow(`SELECT COUNT(*) FROM translations`).Scan(&n); err != nil || n != 0 {
		t.Fatalf("translations count = %d, %v", n, err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "mysql"}}
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

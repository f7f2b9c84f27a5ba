package main

import (
	"context"
	"flag"
	"log"

	"github.com/johnquangdev/caption-relay/internal/infrastructure/database"
	"github.com/johnquangdev/caption-relay/pkg/config"
)

func main() {
	down := flag.Bool("down", false, "roll back migrations instead of applying them")
	steps := flag.Int("steps", 1, "number of migrations to roll back with -down; 0 rolls back all")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("📦 Connecting to %s database...", cfg.Database.Driver)
	conn, err := database.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	log.Println("✅ Database connected successfully")

	if *down {
		log.Printf("🔄 Rolling back migrations (steps=%d)...", *steps)
		n, err := database.Rollback(conn.SQL, conn.Dialect, *steps)
		if err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
		log.Printf("✅ Rolled back %d migration(s)", n)
		return
	}

	log.Println("🔄 Applying embedded migrations...")
	if err := conn.Migrate(); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
}

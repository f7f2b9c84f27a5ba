package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/caption-relay/internal/adapter/repository"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/database"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/realtime"
	eventUsecase "github.com/johnquangdev/caption-relay/internal/usecase/event"
	"github.com/johnquangdev/caption-relay/pkg/config"
	pkgjwt "github.com/johnquangdev/caption-relay/pkg/jwt"
)

func main() {
	title := flag.String("title", "Demo keynote", "event title")
	languages := flag.String("languages", "es,fr", "comma separated languages to activate")
	email := flag.String("email", "owner@test.local", "owner email embedded in the token")
	flag.Parse()

	log.Println("🚀 Seeding a caption event...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("📦 Connecting to database...")
	ctx := context.Background()
	conn, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if conn.Dialect == database.DialectSQLite {
		if err := conn.Migrate(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	bus := realtime.NewMemoryBus(1)
	defer bus.Close()

	events := eventUsecase.NewEventService(repository.NewStoreFor(conn), nil, bus, zap.NewNop())

	ownerID := uuid.New()
	var codes []string
	for _, code := range strings.Split(*languages, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}

	event, err := events.CreateEvent(ctx, eventUsecase.CreateEventInput{
		OwnerID:   ownerID,
		Title:     *title,
		Languages: codes,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create event: %v", err)
	}

	jwtManager := pkgjwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer)
	token, err := jwtManager.GenerateAccessToken(ownerID, *email)
	if err != nil {
		log.Fatalf("❌ Failed to generate access token: %v", err)
	}

	fmt.Printf("═══════════════════════════════════════════════════════════════\n")
	fmt.Printf("🟢 Event:      %s\n", event.Title)
	fmt.Printf("═══════════════════════════════════════════════════════════════\n")
	fmt.Printf("Event ID:     %s\n", event.ID)
	fmt.Printf("UID:          %s\n", event.UID)
	fmt.Printf("Languages:    %s\n", strings.Join(codes, ", "))
	fmt.Printf("Owner ID:     %s\n", ownerID)
	fmt.Printf("\n📋 Owner Access Token (expires in %v):\n", cfg.JWT.AccessExpiry)
	fmt.Printf("%s\n", token)
	fmt.Printf("───────────────────────────────────────────────────────────────\n\n")

	log.Println("✅ Seed complete")
	log.Println("\n💡 Usage:")
	log.Println("   1. Set header: Authorization: Bearer <access_token>")
	log.Printf("   2. Watch captions: go run ./cmd/viewer -event %s -lang %s", event.ID, firstOr(codes, "none"))
}

func firstOr(codes []string, fallback string) string {
	if len(codes) == 0 {
		return fallback
	}
	return codes[0]
}

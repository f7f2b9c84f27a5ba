package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/caption-relay/docs"
	pkgvalidator "github.com/johnquangdev/caption-relay/pkg/validator"

	"github.com/johnquangdev/caption-relay/internal/adapter/handler"
	"github.com/johnquangdev/caption-relay/internal/adapter/repository"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/cache"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/caption-relay/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/messaging"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/realtime"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/storage"
	eventUsecase "github.com/johnquangdev/caption-relay/internal/usecase/event"
	exportUsecase "github.com/johnquangdev/caption-relay/internal/usecase/export"
	ingestUsecase "github.com/johnquangdev/caption-relay/internal/usecase/ingest"
	translationUsecase "github.com/johnquangdev/caption-relay/internal/usecase/translation"
	pkgai "github.com/johnquangdev/caption-relay/pkg/ai"
	"github.com/johnquangdev/caption-relay/pkg/config"
	"github.com/johnquangdev/caption-relay/pkg/jwt"
	"github.com/johnquangdev/caption-relay/pkg/metrics"
	pkgmiddleware "github.com/johnquangdev/caption-relay/pkg/middleware"
)

// @title           Caption Relay API
// @version         1.0
// @description     Live transcript captions with on-demand translation backfill and realtime viewer streams.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Background workers stop with this context
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Printf("📦 Connecting to %s database...", cfg.Database.Driver)
	conn, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// SQLite is always migrated at boot. Postgres schema is managed with
	// cmd/migrate unless DB_AUTO_MIGRATE is set outside production.
	if conn.Dialect == database.DialectSQLite || cfg.Database.AutoMigrate {
		if cfg.Database.AutoMigrate && cfg.IsProduction() && conn.Dialect == database.DialectPostgres {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Manage schema with cmd/migrate.")
		}
		if err := conn.Migrate(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run cmd/migrate for schema changes")
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	store := repository.NewStoreFor(conn)

	// Partial slot and realtime bus: Redis when enabled, in-process otherwise
	var (
		partials repositories.PartialStore
		bus      realtime.Bus
	)
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		partials = cache.NewRedisPartialStore(redisClient, cfg.Redis.PartialTTL)
		bus = realtime.NewRedisBus(redisClient, logger)
	} else {
		log.Println("⚠️  Redis disabled, partials and realtime run in process (single node only)")
		memoryPartials := cache.NewMemoryPartialStore(cfg.Redis.PartialTTL)
		defer memoryPartials.Close()
		partials = memoryPartials
		bus = realtime.NewMemoryBus(cfg.Realtime.SendBuffer)
	}
	defer bus.Close()

	m := metrics.DefaultMetrics

	// Realtime hub
	log.Println("📡 Starting realtime hub...")
	hub := realtime.NewHub(bus, cfg.Realtime, logger, m)
	go func() {
		if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("❌ Realtime hub stopped", zap.Error(err))
		}
	}()

	// Use cases
	log.Println("🤖 Initializing translation provider...")
	provider := pkgai.NewChatClient(cfg.Provider)
	if cfg.Provider.APIKey == "" {
		log.Println("⚠️  PROVIDER_API_KEY is empty, translation dispatches will fail as misconfigured")
	}

	events := eventUsecase.NewEventService(store, partials, bus, logger)
	ingest := ingestUsecase.NewIngestService(store.Segments, partials, bus, m, logger)
	dispatcher := translationUsecase.NewService(store.Segments, store.Translations, provider, logger,
		translationUsecase.WithProviderTimeout(cfg.Provider.Timeout),
		translationUsecase.WithModel(provider.Model()),
		translationUsecase.WithAudit(store.DispatchRuns),
		translationUsecase.WithPublisher(bus),
		translationUsecase.WithMetrics(m),
	)

	// Object storage for transcript exports
	var uploader exportUsecase.Uploader
	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to object storage...")
		minioClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		uploader = minioClient
	} else {
		log.Println("⚠️  Storage disabled, exports are returned inline")
	}
	export := exportUsecase.NewExportService(store, uploader, cfg.Storage.PresignExpiry, logger)

	// Upstream transcriber feed
	if cfg.Kafka.Enabled {
		log.Printf("📨 Consuming transcripts from Kafka %v...", cfg.Kafka.Brokers)
		consumer := messaging.NewTranscriptConsumer(cfg.Kafka, events, ingest, m, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Warn("⚠️ Kafka consumer closed with error", zap.Error(err))
			}
		}()
	}

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		handler.NewEventHandler(events, logger),
		handler.NewIngestHandler(ingest, logger),
		handler.NewTranslationHandler(events, dispatcher, logger),
		handler.NewStreamHandler(events, hub, logger),
		handler.NewExportHandler(events, export, logger),
		httpmw.EchoAuth(jwtManager),
		pkgmiddleware.RequireEventOwner(events),
		promhttp.Handler(),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

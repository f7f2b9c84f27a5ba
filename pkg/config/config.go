package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Provider ProviderConfig
	Storage  StorageConfig
	Kafka    KafkaConfig
	Realtime RealtimeConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver      string `envconfig:"DB_DRIVER" default:"postgres"` // "postgres" or "sqlite"
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"caption_relay"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	SQLitePath  string `envconfig:"DB_SQLITE_PATH" default:"caption-relay.sqlite"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`

	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnectTimeout  time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
	SlowQuery       time.Duration `envconfig:"DB_SLOW_QUERY" default:"200ms"`
	LogQueries      bool          `envconfig:"DB_LOG_QUERIES" default:"false"`
}

// RedisConfig holds Redis configuration. With Redis disabled the partial
// slot and realtime bus run in process.
type RedisConfig struct {
	Enabled    bool          `envconfig:"REDIS_ENABLED" default:"true"`
	Host       string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port       string        `envconfig:"REDIS_PORT" default:"6379"`
	Password   string        `envconfig:"REDIS_PASSWORD"`
	DB         int           `envconfig:"REDIS_DB" default:"0"`
	PartialTTL time.Duration `envconfig:"REDIS_PARTIAL_TTL" default:"30s"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret string        `envconfig:"JWT_ACCESS_SECRET"`
	AccessExpiry time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	Issuer       string        `envconfig:"JWT_ISSUER" default:"caption-relay"`
}

// ProviderConfig holds the translation provider configuration. An empty
// APIKey is allowed at boot; dispatches that need the provider fail instead.
type ProviderConfig struct {
	BaseURL     string        `envconfig:"PROVIDER_BASE_URL" default:"https://api.openai.com"`
	APIKey      string        `envconfig:"PROVIDER_API_KEY"`
	Model       string        `envconfig:"PROVIDER_MODEL" default:"gpt-4o-mini"`
	Temperature float64       `envconfig:"PROVIDER_TEMPERATURE" default:"0"`
	Timeout     time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Enabled         bool          `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string        `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string        `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string        `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string        `envconfig:"STORAGE_BUCKET" default:"caption-relay"`
	UseSSL          bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string        `envconfig:"STORAGE_PUBLIC_URL"`
	PresignExpiry   time.Duration `envconfig:"STORAGE_PRESIGN_EXPIRY" default:"1h"`
}

// KafkaConfig holds the upstream transcriber feed configuration
type KafkaConfig struct {
	Enabled      bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers      []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	GroupID      string   `envconfig:"KAFKA_GROUP_ID" default:"caption-relay"`
	TopicPartial string   `envconfig:"KAFKA_TOPIC_PARTIAL" default:"interaction.transcript.partial"`
	TopicFinal   string   `envconfig:"KAFKA_TOPIC_FINAL" default:"interaction.transcript.final"`
}

// RealtimeConfig holds websocket fan-out settings
type RealtimeConfig struct {
	WriteTimeout time.Duration `envconfig:"REALTIME_WRITE_TIMEOUT" default:"10s"`
	PingInterval time.Duration `envconfig:"REALTIME_PING_INTERVAL" default:"30s"`
	SendBuffer   int           `envconfig:"REALTIME_SEND_BUFFER" default:"64"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	return nil
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

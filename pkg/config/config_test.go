package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_ACCESS_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Database.ConnectTimeout != 5*time.Second || cfg.Database.ConnMaxLifetime != time.Hour {
		t.Errorf("db timeouts = %v / %v", cfg.Database.ConnectTimeout, cfg.Database.ConnMaxLifetime)
	}
	if cfg.Database.SlowQuery != 200*time.Millisecond || cfg.Database.LogQueries {
		t.Errorf("db logging = %v / %v", cfg.Database.SlowQuery, cfg.Database.LogQueries)
	}
	if cfg.Provider.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.Provider.Model)
	}
	if cfg.Provider.Timeout != 30*time.Second {
		t.Errorf("provider timeout = %v", cfg.Provider.Timeout)
	}
	if cfg.Redis.PartialTTL != 30*time.Second {
		t.Errorf("partial ttl = %v", cfg.Redis.PartialTTL)
	}
	if cfg.Kafka.TopicFinal != "interaction.transcript.final" {
		t.Errorf("final topic = %q", cfg.Kafka.TopicFinal)
	}
	if cfg.Provider.APIKey != "" {
		t.Errorf("api key should default to empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Provider.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Provider.Timeout)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.AccessSecret = "" }, wantErr: true},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Provider.Timeout = 0 }, wantErr: true},
		{name: "kafka without brokers", mutate: func(c *Config) {
			c.Kafka.Enabled = true
			c.Kafka.Brokers = nil
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Database: DatabaseConfig{Driver: "postgres"},
				JWT:      JWTConfig{AccessSecret: "s"},
				Provider: ProviderConfig{Timeout: time.Second},
			}
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	c := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable",
	}}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if got := c.GetDatabaseDSN(); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}

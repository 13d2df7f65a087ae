package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string  `env:"PORT,       default=8080"`
	Env       string  `env:"ENV,        default=development"`
	JWTSecret string  `env:"JWT_SECRET"`
	LogLevel  string  `env:"LOG_LEVEL,  default=info"`
	RateLimit float64 `env:"RATE_LIMIT, default=20"` // requests per second per client IP; 0 disables

	Store     StoreConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	Postgres  PostgresConfig
	Audit     AuditConfig
	Bootstrap BootstrapConfig
}

// StoreConfig selects the substrate the embedded store persists into.
type StoreConfig struct {
	Backend    string `env:"STORE_BACKEND, default=badger"` // badger | memory | redis | mongo | none
	Prefix     string `env:"STORE_PREFIX,  default=clientdesk:"`
	BadgerPath string `env:"BADGER_PATH"` // empty uses the XDG data directory
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clientdesk"`
}

// PostgresConfig configures the portal data path. An empty DSN leaves it
// disabled.
type PostgresConfig struct {
	DSN     string        `env:"POSTGRES_DSN"`
	Timeout time.Duration `env:"POSTGRES_TIMEOUT, default=5s"`
}

// AuditConfig sizes the worker pool that writes portal audit entries.
type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// BootstrapConfig describes the administrator seeded into an empty store.
type BootstrapConfig struct {
	AdminName     string `env:"BOOTSTRAP_ADMIN_NAME,     default=Administrator"`
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL,    default=admin@clientdesk.local"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD, default=changeme"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. Variables already set in the environment win
// over the file.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := Process(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// Process fills a Config from l.
func Process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if cfg.Audit.Workers < 1 {
		return nil, fmt.Errorf("AUDIT_WORKERS must be at least 1, got %d", cfg.Audit.Workers)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("RATE_LIMIT must not be negative, got %v", cfg.RateLimit)
	}
	return &cfg, nil
}

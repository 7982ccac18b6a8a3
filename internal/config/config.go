package config

import (
	"fmt"
	"time"

	"financeiro/internal/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	// Server
	Env             string        `envconfig:"ENV" default:"development"`
	Port            string        `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	DB struct {
		Host           string `envconfig:"DB_HOST" default:"localhost"`
		Port           string `envconfig:"DB_PORT" default:"5432"`
		User           string `envconfig:"DB_USER" default:"financeiro"`
		Password       string `envconfig:"DB_PASSWORD" default:"financeiro"`
		Name           string `envconfig:"DB_NAME" default:"financeiro"`
		SSLMode        string `envconfig:"DB_SSLMODE" default:"disable"`
		MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"migrations"`
		MaxIdleConns   int    `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
		MaxOpenConns   int    `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	}

	JWT struct {
		Secret     string        `envconfig:"JWT_SECRET" default:"fallback-secret-key-for-dev-only"`
		AccessTTL  time.Duration `envconfig:"JWT_EXPIRES_IN" default:"24h"`
		RefreshTTL time.Duration `envconfig:"JWT_REFRESH_EXPIRES_IN" default:"720h"`
	}

	OAuth struct {
		ClientID     string `envconfig:"OAUTH_CLIENT_ID" default:"myclientid"`
		ClientSecret string `envconfig:"OAUTH_CLIENT_SECRET" default:"myclientsecret"`
	}

	Mail struct {
		SMTPHost  string `envconfig:"SMTP_HOST"`
		SMTPPort  string `envconfig:"SMTP_PORT" default:"587"`
		Username  string `envconfig:"SMTP_USERNAME"`
		Password  string `envconfig:"SMTP_PASSWORD"`
		From      string `envconfig:"MAIL_FROM" default:"no-reply@financeiro.local"`
		QueueSize int    `envconfig:"MAIL_QUEUE_SIZE" default:"100"`
	}

	Recover struct {
		URI           string        `envconfig:"RECOVER_URI" default:"http://localhost:5173/recover-password/"`
		TokenTTL      time.Duration `envconfig:"RECOVER_TOKEN_TTL" default:"30m"`
		PurgeSchedule string        `envconfig:"RECOVER_PURGE_SCHEDULE" default:"@every 1h"`
	}

	Redis struct {
		Addr         string        `envconfig:"REDIS_ADDR"`
		Password     string        `envconfig:"REDIS_PASSWORD"`
		DB           int           `envconfig:"REDIS_DB" default:"0"`
		AuthorityTTL time.Duration `envconfig:"AUTHORITY_CACHE_TTL" default:"10m"`
	}

	HTTP struct {
		AuthRateLimit      int      `envconfig:"AUTH_RATE_LIMIT" default:"10"`
		CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Admin struct {
		Email    string `envconfig:"ADMIN_EMAIL"`
		Password string `envconfig:"ADMIN_PASSWORD"`
	}
}

// Load loads configuration from the environment, reading a .env file first
// when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug(".env file not found, using process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Env == "production" && cfg.JWT.Secret == "fallback-secret-key-for-dev-only" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string used by GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

// MigrationURL returns the postgres:// URL golang-migrate expects.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

package database

import (
	"time"

	"financeiro/internal/config"
)

// Config holds database configuration
type Config struct {
	DSN            string
	MigrationURL   string
	MigrationsPath string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// NewConfig derives the database configuration from the application config.
func NewConfig(cfg *config.Config) *Config {
	return &Config{
		DSN:             cfg.DSN(),
		MigrationURL:    cfg.MigrationURL(),
		MigrationsPath:  cfg.DB.MigrationsPath,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		ConnMaxLifetime: time.Hour,
	}
}

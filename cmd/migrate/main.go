// Command migrate applies or rolls back the SQL migrations.
//
//	migrate up            apply all pending migrations
//	migrate down [n]      roll back n migrations (default 1)
//	migrate version       print the current schema version
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"financeiro/internal/config"
	"financeiro/internal/database"
	"financeiro/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("Migration failed: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: migrate up|down [n]|version")
	}

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	mig, err := database.NewMigrator(database.NewConfig(appConfig))
	if err != nil {
		return err
	}
	defer database.CloseMigrator(mig)

	log := logger.Get()
	switch args[0] {
	case "up":
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		steps := 1
		if len(args) > 1 {
			if steps, err = strconv.Atoi(args[1]); err != nil || steps < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
		}
		if err := mig.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	log.Infow("Schema version", "version", version, "dirty", dirty)
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"product-catalog/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	migrationsPath := pflag.StringP("migrations-path", "m", "migrations", "directory containing migration files")
	databaseURL := pflag.StringP("database-url", "d", "", "database URL override (pgx5://...)")
	down := pflag.Bool("down", false, "roll all migrations back instead of applying them")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger).With().Str("component", "migrator").Logger()

	url := *databaseURL
	if url == "" {
		url = cfg.Database.MigrationURL()
	}

	m, err := migrate.New("file://"+*migrationsPath, url)
	if err != nil {
		return fmt.Errorf("failed to initialize migrator: %w", err)
	}
	m.Log = &migrationLogger{logger: logger}

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("no migrations to apply")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info().Msg("migrations applied")
	return nil
}

// migrationLogger adapts zerolog to the migrate.Logger interface.
type migrationLogger struct {
	logger zerolog.Logger
}

func (l *migrationLogger) Printf(format string, v ...any) {
	l.logger.Info().Msgf(format, v...)
}

func (l *migrationLogger) Verbose() bool {
	return true
}

package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"tempo/config"
	"tempo/infras/postgres"
)

const migrationSource = "file://migrations/postgres"

type Action string

const (
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionStepUp Action = "step-up"
	ActionDrop   Action = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

// ConnectionString is the write endpoint DSN with the migrations table set.
func ConnectionString(cfg *config.Config) (string, error) {
	pg := cfg.DB.Postgres

	dsn, err := url.Parse(postgres.DSN(pg.Write, pg.Prefix))
	if err != nil {
		return "", fmt.Errorf("parsing postgres dsn: %w", err)
	}

	if pg.MigrationTable != "" {
		query := dsn.Query()
		query.Set("x-migrations-table", pg.MigrationTable)
		dsn.RawQuery = query.Encode()
	}

	return dsn.String(), nil
}

func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	connectionString, err := ConnectionString(cfg)
	if err != nil {
		return nil, err
	}

	mig, err := migrate.New(migrationSource, connectionString)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(cfg *config.Config, action Action) error {
	var run func(mig *migrate.Migrate) error

	switch action {
	case ActionUp:
		run = (*migrate.Migrate).Up
	case ActionDown:
		run = func(mig *migrate.Migrate) error { return mig.Steps(-1) }
	case ActionStepUp:
		run = func(mig *migrate.Migrate) error { return mig.Steps(1) }
	case ActionDrop:
		run = (*migrate.Migrate).Down
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	mig, err := getConnection(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	if err := run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations (%s): %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migrations completed successfully")

	return nil
}

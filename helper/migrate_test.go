package helper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/config"
	"tempo/helper"
)

func TestConnectionString(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Write = config.PostgresEndpoint{
		Host:     "db",
		Port:     "5432",
		Username: "tempo",
		Password: "secret",
		Name:     "tempo",
	}
	cfg.DB.Postgres.MigrationTable = "schema_migrations"

	dsn, err := helper.ConnectionString(cfg)
	require.NoError(t, err)
	assert.Equal(t, "postgres://tempo:secret@db:5432/tempo?sslmode=disable&timezone=UTC&x-migrations-table=schema_migrations", dsn)
}

func TestRunnerRejectsUnknownAction(t *testing.T) {
	err := helper.Runner(&config.Config{}, helper.Action("sideways"))
	require.ErrorIs(t, err, helper.ErrUnknownAction)
}

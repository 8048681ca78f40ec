package infra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
)

type MigrationDirection string

const (
	MigrationUp   MigrationDirection = "up"
	MigrationDown MigrationDirection = "down"
)

func Migrate(c context.Context, dbConfig config.Database, direction MigrationDirection) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "infra Migrate").
		Str("direction", string(direction)).
		Str("migrationPath", dbConfig.MigrationPath).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "opening sql.DB").Logger()
	logger.Info().Msg("opening sql.DB")
	db, err := sql.Open("postgres", dbConfig.URL())
	if err != nil {
		err = fmt.Errorf("failed opening sql.DB with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer db.Close()
	if err = db.PingContext(c); err != nil {
		err = fmt.Errorf("failed ping sql.DB with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("opened sql.DB")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing migration").Logger()
	logger.Info().Msg("initializing migration")
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		err = fmt.Errorf("failed initializing migration driver with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	migration, err := migrate.NewWithDatabaseInstance(dbConfig.MigrationPath, dbConfig.Name, driver)
	if err != nil {
		err = fmt.Errorf("failed initializing migration with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized migration")

	logger = logger.With().Str(constants.KEY_PROCESS, "migrating "+string(direction)).Logger()
	logger.Info().Msg("migrating")
	switch direction {
	case MigrationDown:
		err = migration.Down()
	default:
		err = migration.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		err = fmt.Errorf("failed migrating %s with error=%w", direction, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("migrated")

	return nil
}

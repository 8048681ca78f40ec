package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/otel"
)

func NewDatabaseClient(c context.Context, dbConfig config.Database) (*pgxpool.Pool, error) {
	c, span := otel.Tracer.Start(c, "infra NewDatabaseClient")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "infra NewDatabaseClient").
		Str(constants.KEY_PROCESS, "connecting to database").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing pgx config").Logger()
	logger.Info().Msg("initializing pgx config")
	pgxConfig, err := pgxpool.ParseConfig(dbConfig.URL())
	if err != nil {
		err = fmt.Errorf("failed initializing pgx config with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if dbConfig.MaxConnections > 0 {
		pgxConfig.MaxConns = dbConfig.MaxConnections
	}
	if dbConfig.MinConnections > 0 {
		pgxConfig.MinConns = dbConfig.MinConnections
	}
	pgxConfig.MaxConnLifetime = 15 * time.Minute
	pgxConfig.MaxConnIdleTime = 5 * time.Minute
	logger.Info().Msg("initialized pgx config")

	logger = logger.With().Str(constants.KEY_PROCESS, "attaching otel tracer to pgx").Logger()
	logger.Info().Msg("attaching otel tracer to pgx")
	pgxConfig.ConnConfig.Tracer = otelpgx.NewTracer(
		otelpgx.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	logger.Info().Msg("attached otel tracer to pgx")

	pgxConfig.AfterConnect = RegisterTypes

	logger = logger.With().Str(constants.KEY_PROCESS, "creating connection pool").Logger()
	logger.Info().Msg("creating connection pool")
	pool, err := pgxpool.NewWithConfig(c, pgxConfig)
	if err != nil {
		err = fmt.Errorf("failed creating connection pool with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("created connection pool")

	logger = logger.With().Str(constants.KEY_PROCESS, "ping db").Logger()
	logger.Info().Msg("ping db")
	if err = pool.Ping(c); err != nil {
		pool.Close()
		err = fmt.Errorf("failed ping db with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("pinged db")

	return pool, nil
}

// RegisterTypes lets every pooled connection scan uuid columns straight into
// uuid.UUID.
func RegisterTypes(_ context.Context, conn *pgx.Conn) error {
	pgxuuid.Register(conn.TypeMap())
	return nil
}

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique violation, optionally on
// the named constraint only.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// RollbackTx is deferred right after BeginTx. Rolling back a committed
// transaction is not an error.
func RollbackTx(c context.Context, tx pgx.Tx, span trace.Span) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "rolling back transaction").
		Logger()

	err := tx.Rollback(c)
	if err == nil {
		logger.Info().Msg("rolled back transaction")
		return
	}
	if errors.Is(err, pgx.ErrTxClosed) {
		return
	}
	err = fmt.Errorf("failed rolling back transaction with error=%w", err)
	otel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
}

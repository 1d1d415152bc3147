// Package migrations embeds the goose SQL migrations for the session store.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed *.sql
var files embed.FS

// Direction selects what Run does.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{ log zerolog.Logger }

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info().Msg(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal().Msg(fmt.Sprintf(format, v...))
}

// Run applies dir against the pool. Down rolls back a single version.
func Run(ctx context.Context, pool *pgxpool.Pool, dir Direction, logger zerolog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return RunDB(ctx, db, dir, logger)
}

// RunDB is Run for an existing *sql.DB opened with the pgx driver.
func RunDB(ctx context.Context, db *sql.DB, dir Direction, logger zerolog.Logger) error {
	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{log: logger.With().Str("component", "goose").Logger()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	var err error
	switch dir {
	case Up:
		err = goose.UpContext(ctx, db, ".")
	case Down:
		err = goose.DownContext(ctx, db, ".")
	case Status:
		err = goose.StatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}
	return nil
}

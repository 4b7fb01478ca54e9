// Package database implements store.Store on PostgreSQL and keeps users and
// login sessions.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/topi314/gomigrate"
	"github.com/topi314/gomigrate/drivers/postgres"

	"github.com/topi314/club-directory/internal/xslog"
	"github.com/topi314/club-directory/server/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

var _ store.Store = (*Database)(nil)

func New(cfg Config) (*Database, error) {
	return Open(cfg.DataSourceName())
}

// Open connects to dataSourceName and runs the embedded migrations.
func Open(dataSourceName string) (*Database, error) {
	dbx, err := sqlx.Connect("pgx", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = gomigrate.Migrate(ctx, dbx, postgres.New, migrations); err != nil {
		_ = dbx.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db := &Database{
		db:   dbx,
		done: make(chan struct{}),
	}

	go db.cleanupSessions()

	return db, nil
}

type Database struct {
	db   *sqlx.DB
	done chan struct{}
}

func (d *Database) Close() error {
	close(d.done)
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

func (d *Database) cleanupSessions() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		d.doCleanupSessions()
		select {
		case <-d.done:
			return
		case <-ticker.C:
		}
	}
}

func (d *Database) doCleanupSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := d.DeleteExpiredSessions(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to cleanup expired sessions", slog.Any("err", err), xslog.Component("database"))
	}
}

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// isInvalidText reports a value that could not be cast to the column type,
// like a malformed uuid.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

// notFound maps missing rows and ids that cannot exist to store.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return store.ErrNotFound
	}
	return err
}

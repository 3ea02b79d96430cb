package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	ErrInvalidQuery = errors.New("invalid search query")
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type DB struct {
	Pool   *pgxpool.Pool
	logger *slog.Logger
}

// BatchInsertError reports which row of a batch failed.
type BatchInsertError struct {
	FailedIndex int
	Total       int
	Err         error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("failed to insert row %d/%d: %v", e.FailedIndex, e.Total, e.Err)
}

func (e *BatchInsertError) Unwrap() error {
	return e.Err
}

func Connect(ctx context.Context, databaseURL string, logger *slog.Logger) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return &DB{Pool: pool, logger: logger}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate applies the embedded migrations in file name order. Every file is
// written to be re-runnable.
func (db *DB) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if _, err := db.Pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", name, err)
		}
		db.logger.Info("migration applied", "file", name)
	}

	return nil
}

func (db *DB) Close() {
	db.Pool.Close()
	db.logger.Info("database connection closed")
}

// timed logs one line per query in the "Name: duration=..." style.
func (db *DB) timed(name string, attrs ...any) func() {
	start := time.Now()
	return func() {
		db.logger.Debug(name, append([]any{"duration", time.Since(start)}, attrs...)...)
	}
}

// mapError turns driver errors into the package sentinels.
func mapError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConflict
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quantmind-br/sdklaunch/internal/core"
	_ "modernc.org/sqlite"
)

// ErrNoRuntime is returned when the cache holds no matching runtime
var ErrNoRuntime = errors.New("no cached runtime")

// DB represents the database with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// New creates a new database instance with separate read/write pools
func New(ctx context.Context, dbPath string) (*DB, error) {
	// Connection string with pragmas
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(4)
	read.SetMaxIdleConns(2)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Path returns the database file location
func (db *DB) Path() string {
	return db.path
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

// initSchema creates the schema if it doesn't exist
func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS runtimes (
    path TEXT PRIMARY KEY,
    version TEXT,
    strategy TEXT NOT NULL,
    verified INTEGER NOT NULL DEFAULT 0,
    located_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runtimes_located_at ON runtimes(located_at);
	`

	_, err := db.write.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Record stores rt, replacing any earlier record for the same path.
// A zero LocatedAt is stamped with the current time.
func (db *DB) Record(ctx context.Context, rt core.Runtime) error {
	if rt.Path == "" {
		return fmt.Errorf("record runtime: empty path")
	}
	if rt.LocatedAt.IsZero() {
		rt.LocatedAt = time.Now()
	}

	query := `
INSERT INTO runtimes (path, version, strategy, verified, located_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    version = excluded.version,
    strategy = excluded.strategy,
    verified = excluded.verified,
    located_at = excluded.located_at
	`

	_, err := db.write.ExecContext(ctx, query,
		rt.Path,
		rt.Version,
		string(rt.Strategy),
		rt.Verified,
		rt.LocatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert runtime: %w", err)
	}

	return nil
}

// Latest returns the most recently located runtime
func (db *DB) Latest(ctx context.Context) (core.Runtime, error) {
	query := `
SELECT path, version, strategy, verified, located_at
FROM runtimes ORDER BY located_at DESC LIMIT 1
	`

	rt, err := scanRuntime(db.read.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Runtime{}, ErrNoRuntime
	}
	if err != nil {
		return core.Runtime{}, fmt.Errorf("query latest runtime: %w", err)
	}

	return rt, nil
}

// List retrieves all cached runtimes, newest first
func (db *DB) List(ctx context.Context) ([]core.Runtime, error) {
	query := `
SELECT path, version, strategy, verified, located_at
FROM runtimes ORDER BY located_at DESC
	`

	rows, err := db.read.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query runtimes: %w", err)
	}
	defer rows.Close()

	var runtimes []core.Runtime
	for rows.Next() {
		rt, err := scanRuntime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan runtime: %w", err)
		}
		runtimes = append(runtimes, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return runtimes, nil
}

// Delete removes the record for path
func (db *DB) Delete(ctx context.Context, path string) error {
	result, err := db.write.ExecContext(ctx, "DELETE FROM runtimes WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("delete runtime: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNoRuntime, path)
	}

	return nil
}

// Clear removes every record and reports how many were dropped
func (db *DB) Clear(ctx context.Context) (int64, error) {
	result, err := db.write.ExecContext(ctx, "DELETE FROM runtimes")
	if err != nil {
		return 0, fmt.Errorf("clear runtimes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return rows, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRuntime(s scanner) (core.Runtime, error) {
	var (
		rt       core.Runtime
		version  sql.NullString
		strategy string
	)

	if err := s.Scan(&rt.Path, &version, &strategy, &rt.Verified, &rt.LocatedAt); err != nil {
		return core.Runtime{}, err
	}
	rt.Version = version.String
	rt.Strategy = core.Strategy(strategy)

	return rt, nil
}

// Package store provides durable key-value state storage.
// The application's persisted state (quota fields, preferences, the current
// displayed quote) is a handful of string keys, so the schema is a single
// keyed table rather than one table per concern.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/Infernape3000/Tenacio/internal/domain"
	"github.com/Infernape3000/Tenacio/internal/ports"
)

// healthCheckTimeout bounds the ping issued by the health checker.
const healthCheckTimeout = 2 * time.Second

// SQLiteStore implements ports.StateStore over an embedded sqlite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var (
	_ ports.StateStore    = (*SQLiteStore)(nil)
	_ ports.HealthChecker = (*SQLiteStore)(nil)
)

// OpenSQLite opens (creating if needed) the database at path and runs the
// schema migrations. The parent directory is created when missing.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "store.SQLiteStore"))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	// A single writer keeps sqlite happy; the orchestration flow is
	// sequential anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("pinging state database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path, logger: logger}

	if err := s.migrate(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrating state database: %w", err)
	}

	logger.Info("state database ready", slog.String("path", path))

	return s, nil
}

// migration is a single ordered schema change.
type migration struct {
	version int
	name    string
	up      string
}

// migrations are applied in order; versions already recorded in
// schema_migrations are skipped.
var migrations = []migration{
	{
		version: 1,
		name:    "app_state",
		up: `CREATE TABLE IF NOT EXISTS app_state (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	},
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("reading migration version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		s.logger.Info("applying migration",
			slog.Int("version", m.version),
			slog.String("name", m.name),
		)

		if _, err := s.db.Exec(m.up); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}

		if _, err := s.db.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
	}

	return nil
}

// Get implements ports.StateStore.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.NewNotFoundError("state key", key)
	}

	if err != nil {
		return "", fmt.Errorf("reading state key %q: %w", key, err)
	}

	return value, nil
}

// Set implements ports.StateStore with an upsert.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing state key %q: %w", key, err)
	}

	return nil
}

// SetMany implements ports.StateStore with a single transaction, so a
// crash mid-write never leaves related keys half-updated.
func (s *SQLiteStore) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning state transaction: %w", err)
	}

	for key, value := range values {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO app_state (key, value, updated_at)
			VALUES (?, ?, datetime('now'))
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value,
		); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("writing state key %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state transaction: %w", err)
	}

	return nil
}

// Delete implements ports.StateStore. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting state key %q: %w", key, err)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Name implements ports.HealthChecker.
func (s *SQLiteStore) Name() string {
	return "state-store"
}

// Check implements ports.HealthChecker.
func (s *SQLiteStore) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	return s.db.PingContext(ctx)
}

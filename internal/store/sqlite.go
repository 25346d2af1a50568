package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"jobwatch/pkg/logx"
)

// sqliteStore mirrors the in-memory set into a single-table database.
// Contains/Add still answer from memory; Flush rewrites the table to exactly
// the current snapshot.
type sqliteStore struct {
	*seenSet
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for sqlite driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS seen (url TEXT PRIMARY KEY)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &sqliteStore{seenSet: newSeenSet(), db: db, log: log}
	if err := s.load(context.Background()); err != nil {
		// Degrade to empty, same policy as the file driver.
		s.log.Warn("seen-set read failed; starting empty", logx.String("path", path), logx.Err(err))
	}
	return s, nil
}

func (s *sqliteStore) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT url FROM seen`)
	if err != nil {
		return err
	}
	defer rows.Close()

	n := 0
	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return err
		}
		if u = strings.TrimSpace(u); u != "" {
			s.seen[u] = struct{}{}
			n++
		}
	}
	s.log.Debug("seen-set loaded", logx.Int("entries", n))
	return rows.Err()
}

func (s *sqliteStore) Flush(ctx context.Context) error {
	urls := s.snapshot()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("flush seen-set: %w", err)
	}
	// Complete overwrite, same contract as the file driver: after a degraded
	// load the database must not keep rows the set no longer has.
	if _, err := tx.ExecContext(ctx, `DELETE FROM seen`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("flush seen-set: %w", err)
	}
	for _, u := range urls {
		if _, err := tx.ExecContext(ctx, `INSERT INTO seen(url) VALUES(?)`, u); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("flush seen-set: %w", err)
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

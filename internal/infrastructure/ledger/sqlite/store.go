// Package sqlite persists a single device's reminder ledger in a local file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nbkdev/control-center/internal/core/reminder"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS reminder_ledger (
		reminder_key TEXT PRIMARY KEY,
		shown_on     TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var day string
	err := s.db.QueryRowContext(ctx, `SELECT shown_on FROM reminder_ledger WHERE reminder_key = ?`, key).Scan(&day)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get ledger entry: %w", err)
	}
	return day, true, nil
}

func (s *Store) Set(ctx context.Context, key, day string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_ledger (reminder_key, shown_on) VALUES (?, ?)
		ON CONFLICT(reminder_key) DO UPDATE SET shown_on = excluded.shown_on`, key, day)
	if err != nil {
		return fmt.Errorf("set ledger entry: %w", err)
	}
	return nil
}

// ForDevice ignores deviceID: the file already belongs to one device.
func (s *Store) ForDevice(string) reminder.Store {
	return s
}
